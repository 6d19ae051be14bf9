package verification

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"staybook/internal/api"
	"staybook/internal/audit"
)

type Handlers struct {
	Service *Service
	Records *Repository
	Audit   *audit.Repository
	Log     *zap.Logger
}

type submitRequest struct {
	UserID        string            `json:"userId" validate:"required,uuid"`
	BookingID     *int64            `json:"bookingId"`
	DocumentType  string            `json:"documentType" validate:"required"`
	DocumentData  map[string]string `json:"documentData" validate:"required"`
	Decision      string            `json:"decision" validate:"required,oneof=approved rejected"`
	ReviewMessage string            `json:"reviewMessage"`
}

// Submit records an admin's verification decision for a user's document.
func (h Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	admin := api.UserFromContext(r.Context())

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if problems := api.ValidateRequest(req); problems != nil {
		api.WriteValidationErrors(w, problems)
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	rec, err := h.Service.Submit(r.Context(), SubmitInput{
		UserID:        userID,
		BookingID:     req.BookingID,
		DocumentType:  req.DocumentType,
		DocumentData:  req.DocumentData,
		Decision:      Decision(req.Decision),
		ReviewMessage: req.ReviewMessage,
	})
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			api.WriteFieldError(w, http.StatusBadRequest, "VALIDATION_FAILED", ve.Error(), ve.Missing)
			return
		}
		h.Log.Error("verification submit failed", zap.Error(err))
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	_ = h.Audit.Insert(r.Context(), userID, req.BookingID, "DOCUMENT_"+statusAction(rec.Status), admin.Email, map[string]any{
		"documentType": rec.DocumentType,
		"recordId":     rec.ID,
	})

	api.WriteJSON(w, http.StatusCreated, rec)
}

// History lists all verification attempts for a user, newest first.
func (h Handlers) History(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid user id")
		return
	}

	items, err := h.Records.ListByUser(r.Context(), userID)
	if err != nil {
		h.Log.Error("verification history failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Status is the guest dashboard view: whether an approved document exists and
// which one, for the "use existing document" flow.
func (h Handlers) Status(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	rec, err := h.Service.LatestApproved(r.Context(), u.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteJSON(w, http.StatusOK, map[string]any{"verified": false})
			return
		}
		h.Log.Error("verification status failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"verified": true, "record": rec})
}

// Schema exposes the per-type required-field lists so the admin form renders
// the right inputs without duplicating the table.
func (h Handlers) Schema(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, requiredFields)
}

func statusAction(s VerificationStatus) string {
	if s == StatusApproved {
		return "APPROVED"
	}
	return "REJECTED"
}
