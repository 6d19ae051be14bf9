package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"staybook/pkg/token"
)

type Handlers struct {
	Users  *Repository
	Tokens *token.Service
	Log    *zap.Logger
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if msg := validateRequest(req); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", msg)
		return
	}

	u, err := h.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		// Same response for unknown email and bad password.
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	tok, err := h.Tokens.Issue(map[string]any{
		"sub":   u.ID.String(),
		"email": u.Email,
		"role":  string(u.Role),
	})
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: tok, User: u})
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if msg := validateRequest(req); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", msg)
		return
	}

	if _, err := h.Users.FindByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "an account with this email already exists")
		return
	} else if !errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         RoleGuest,
		PasswordHash: string(hash),
	}
	if err := h.Users.Create(r.Context(), u); err != nil {
		h.Log.Error("user create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	tok, err := h.Tokens.Issue(map[string]any{
		"sub":   u.ID.String(),
		"email": u.Email,
		"role":  string(u.Role),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: tok, User: u})
}

var validate = validator.New()

// validateRequest mirrors internal/api's validator usage; a local copy because
// internal/api depends on this package for the session middleware.
func validateRequest(v any) string {
	err := validate.Struct(v)
	if err == nil {
		return ""
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	var parts []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+": this field is required")
		case "email":
			parts = append(parts, fe.Field()+": invalid email format")
		case "min":
			parts = append(parts, fe.Field()+": must be at least "+fe.Param()+" characters")
		default:
			parts = append(parts, fe.Field()+": invalid value")
		}
	}
	return strings.Join(parts, "; ")
}

// local writers to avoid an import cycle with internal/api, which depends on
// this package for context helpers.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"code": code, "message": message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
