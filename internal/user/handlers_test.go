package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// Validation rejections must land before any repository or token access, so
// the handlers run here without either wired.
func TestRegister_Validation(t *testing.T) {
	h := Handlers{Log: zap.NewNop()}

	cases := []struct {
		name string
		body string
		want string
	}{
		{"short password", `{"email":"asha@example.com","name":"Asha Rao","password":"short"}`, "Password"},
		{"bad email", `{"email":"not-an-email","name":"Asha Rao","password":"longenough"}`, "Email"},
		{"missing name", `{"email":"asha@example.com","password":"longenough"}`, "Name"},
		{"invalid json", `{`, "invalid json"},
	}
	for _, tc := range cases {
		rec := postJSON(t, h.Register, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, want 400", tc.name, rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, "VALIDATION_FAILED") || !strings.Contains(body, tc.want) {
			t.Errorf("%s: body %q missing VALIDATION_FAILED or %q", tc.name, body, tc.want)
		}
	}
}

func TestLogin_Validation(t *testing.T) {
	h := Handlers{Log: zap.NewNop()}

	rec := postJSON(t, h.Login, `{"email":"asha@example.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Password") {
		t.Fatalf("body %q does not name the missing field", body)
	}

	rec = postJSON(t, h.Login, `{"password":"longenough"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Email") {
		t.Fatalf("body %q does not name the missing field", body)
	}
}
