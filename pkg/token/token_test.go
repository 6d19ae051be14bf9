package token

import (
	"testing"
	"time"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc, err := NewService("test_secret", "staybook-test", "staybook-app")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	now := time.Unix(1700000000, 0)
	tok, err := svc.IssueAt(map[string]any{"sub": "user-1", "role": "guest"}, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	v := svc.VerifyAt(tok, now)
	if !v.Valid {
		t.Fatalf("expected valid, got error %q", v.Error)
	}
	if got := Subject(v.Claims); got != "user-1" {
		t.Fatalf("subject mismatch: %q", got)
	}
	if got, _ := v.Claims["role"].(string); got != "guest" {
		t.Fatalf("role claim mismatch: %q", got)
	}
	exp, _ := v.Claims["exp"].(float64)
	iat, _ := v.Claims["iat"].(float64)
	if int64(exp)-int64(iat) != int64(TTL/time.Second) {
		t.Fatalf("expected exp-iat = %d, got %d", int64(TTL/time.Second), int64(exp)-int64(iat))
	}
}

func TestVerify_Expired(t *testing.T) {
	svc, _ := NewService("test_secret", "staybook-test", "staybook-app")

	issued := time.Unix(1700000000, 0)
	tok, err := svc.IssueAt(map[string]any{"sub": "user-1"}, issued)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// 8 days later with a 7-day TTL.
	v := svc.VerifyAt(tok, issued.Add(8*24*time.Hour))
	if v.Valid {
		t.Fatalf("expected expired token to be invalid")
	}
	if v.Claims != nil {
		t.Fatalf("expected nil claims on failure")
	}
}

func TestVerify_EmptyToken(t *testing.T) {
	svc, _ := NewService("test_secret", "staybook-test", "staybook-app")

	v := svc.Verify("")
	if v.Valid {
		t.Fatalf("expected invalid")
	}
	if v.Error != "No token provided" {
		t.Fatalf("unexpected error message: %q", v.Error)
	}
}

func TestVerify_WrongIssuerOrAudience(t *testing.T) {
	now := time.Unix(1700000000, 0)

	issuerA, _ := NewService("test_secret", "staybook-staging", "staybook-app")
	issuerB, _ := NewService("test_secret", "staybook-prod", "staybook-app")

	tok, err := issuerA.IssueAt(map[string]any{"sub": "user-1"}, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if v := issuerB.VerifyAt(tok, now); v.Valid {
		t.Fatalf("expected issuer mismatch to invalidate token")
	}

	otherAud, _ := NewService("test_secret", "staybook-staging", "other-app")
	if v := otherAud.VerifyAt(tok, now); v.Valid {
		t.Fatalf("expected audience mismatch to invalidate token")
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc, _ := NewService("test_secret", "staybook-test", "staybook-app")
	other, _ := NewService("other_secret", "staybook-test", "staybook-app")

	tok, err := other.IssueAt(map[string]any{"sub": "user-1"}, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if v := svc.VerifyAt(tok, now); v.Valid {
		t.Fatalf("expected signature mismatch to invalidate token")
	}
}

func TestNewService_MissingSecret(t *testing.T) {
	if _, err := NewService("", "iss", "aud"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
