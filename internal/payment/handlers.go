package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"staybook/internal/api"
	"staybook/internal/booking"
	"staybook/internal/events"
)

type Handlers struct {
	Service  *Service
	Payments *Repository
	Events   *events.Repository
	Log      *zap.Logger
}

type callbackRequest struct {
	BookingID        int64  `json:"bookingId" validate:"required"`
	GatewayOrderID   string `json:"gatewayOrderId" validate:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
	Amount           string `json:"amount" validate:"required"`
}

// Callback handles the gateway's capture confirmation. It is unauthenticated;
// the HMAC signature is the authentication.
func (h Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if problems := api.ValidateRequest(req); problems != nil {
		api.WriteValidationErrors(w, problems)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid amount")
		return
	}

	b, err := h.Service.RecordPayment(r.Context(), RecordPaymentInput{
		BookingID:        req.BookingID,
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
		Amount:           amount,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	_ = h.Events.Insert(r.Context(), b.ID, "PAYMENT_CAPTURED", "Payment received", "gateway", time.Now(), map[string]any{
		"gatewayPaymentId": req.GatewayPaymentID,
		"amount":           amount,
	})

	api.WriteJSON(w, http.StatusOK, b)
}

type refundRequest struct {
	RefundID string `json:"refundId" validate:"required"`
}

// Refund records a gateway refund against a booking (admin action after the
// refund is issued in the gateway dashboard).
func (h Handlers) Refund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking id")
		return
	}

	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if problems := api.ValidateRequest(req); problems != nil {
		api.WriteValidationErrors(w, problems)
		return
	}

	u := api.UserFromContext(r.Context())
	b, err := h.Service.RecordRefund(r.Context(), id, req.RefundID, time.Now())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	_ = h.Events.Insert(r.Context(), b.ID, "PAYMENT_REFUNDED", "Payment refunded", u.Email, time.Now(), map[string]any{
		"refundId": req.RefundID,
	})

	api.WriteJSON(w, http.StatusOK, b)
}

// History lists payment records for a booking (admin detail view).
func (h Handlers) History(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking id")
		return
	}

	items, err := h.Payments.ListByBooking(r.Context(), id)
	if err != nil {
		h.Log.Error("payment history failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSignatureInvalid):
		api.WriteError(w, http.StatusUnauthorized, "SIGNATURE_INVALID", err.Error())
	case errors.Is(err, ErrAmountMismatch):
		api.WriteError(w, http.StatusConflict, "AMOUNT_MISMATCH", err.Error())
	case errors.Is(err, ErrNotPayable):
		api.WriteError(w, http.StatusConflict, "NOT_PAYABLE", err.Error())
	case errors.Is(err, booking.ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
	default:
		h.Log.Error("payment handler error", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
