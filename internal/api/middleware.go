package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"staybook/internal/user"
	"staybook/pkg/token"
)

// SessionAuth validates Bearer session tokens and loads the user into the
// request context. Token failures are reported as 401 with the verifier's
// reason; they are never treated as server errors.
func SessionAuth(tokens *token.Service, users *user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			var raw string
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				raw = strings.TrimSpace(authz[7:])
			}

			v := tokens.Verify(raw)
			if !v.Valid {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", v.Error)
				return
			}

			id, err := uuid.Parse(token.Subject(v.Claims))
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid subject claim")
				return
			}

			u, err := users.FindByID(r.Context(), id)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireAdmin must run after SessionAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		if u == nil || u.Role != user.RoleAdmin {
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one structured line per request.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rw.statusCode),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
