package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is fixed at seven days; sessions re-authenticate after that.
const TTL = 7 * 24 * time.Hour

// Service issues and verifies session tokens (JWT, HS256) for the guest
// dashboard and admin console. It is stateless; every authenticated request
// re-verifies the token.
type Service struct {
	secret   string
	issuer   string
	audience string
}

// Verification is the full outcome of a Verify call. Failures are reported
// here rather than raised so the HTTP boundary can always render a reason.
type Verification struct {
	Valid  bool
	Claims jwt.MapClaims
	Error  string
}

func NewService(secret, issuer, audience string) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: signing secret is not set")
	}
	return &Service{secret: secret, issuer: issuer, audience: audience}, nil
}

// Issue signs the supplied claims after stamping iat, exp, iss and aud.
// Caller-supplied values for those four claims are overwritten.
func (s *Service) Issue(claims map[string]any) (string, error) {
	return s.IssueAt(claims, time.Now())
}

func (s *Service) IssueAt(claims map[string]any, now time.Time) (string, error) {
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(TTL).Unix()
	mc["iss"] = s.issuer
	mc["aud"] = s.audience

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return tok.SignedString([]byte(s.secret))
}

// Verify checks signature, expiration, issuer and audience together; a single
// mismatch invalidates the token.
func (s *Service) Verify(tokenString string) Verification {
	return s.VerifyAt(tokenString, time.Now())
}

func (s *Service) VerifyAt(tokenString string, now time.Time) Verification {
	if tokenString == "" {
		return Verification{Error: "No token provided"}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	claims := jwt.MapClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.secret), nil
	})
	if err != nil {
		return Verification{Error: err.Error()}
	}
	if !tok.Valid {
		return Verification{Error: "invalid token"}
	}

	return Verification{Valid: true, Claims: claims}
}

// Subject extracts the sub claim from verified claims.
func Subject(claims jwt.MapClaims) string {
	sub, _ := claims["sub"].(string)
	return sub
}
