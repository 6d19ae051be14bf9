package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"staybook/internal/apartment"
	"staybook/internal/api"
	"staybook/internal/audit"
	"staybook/internal/events"
)

type Handlers struct {
	Machine    *Machine
	Bookings   *Repository
	Apartments *apartment.Repository
	Events     *events.Repository
	Audit      *audit.Repository

	PendingExpiry time.Duration
	Log           *zap.Logger
}

// view attaches the date-derived status so every client renders the same
// lifecycle state without re-implementing the rule.
type view struct {
	Booking
	DisplayStatus Status `json:"displayStatus"`
}

func (h Handlers) view(b Booking) view {
	return view{Booking: b, DisplayStatus: DeriveStatus(&b, time.Now(), h.PendingExpiry)}
}

func (h Handlers) views(bs []Booking) []view {
	out := make([]view, 0, len(bs))
	for _, b := range bs {
		out = append(out, h.view(b))
	}
	return out
}

type guestDetailRequest struct {
	Name   string `json:"name" validate:"required"`
	Age    int    `json:"age" validate:"required,min=1"`
	Gender string `json:"gender" validate:"required,oneof=male female other"`
	Phone  string `json:"phone"`
}

type createRequest struct {
	ApartmentID  int64                `json:"apartmentId" validate:"required"`
	StartDate    string               `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string               `json:"endDate" validate:"required,datetime=2006-01-02"`
	Guests       int                  `json:"guests" validate:"required,min=1"`
	GuestDetails []guestDetailRequest `json:"guestDetails" validate:"dive"`
}

// Create makes a new booking in pending/unpaid for the authenticated guest.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if problems := api.ValidateRequest(req); problems != nil {
		api.WriteValidationErrors(w, problems)
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if !start.Before(end) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "startDate must be before endDate")
		return
	}

	apt, err := h.Apartments.GetByID(r.Context(), req.ApartmentID)
	if err != nil {
		if errors.Is(err, apartment.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "apartment not found")
			return
		}
		h.Log.Error("apartment lookup failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !apt.Active {
		api.WriteError(w, http.StatusConflict, "APARTMENT_INACTIVE", "apartment is not open for booking")
		return
	}
	if req.Guests > apt.MaxGuests {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "guest count exceeds apartment capacity")
		return
	}

	nights := int64(end.Sub(start).Hours() / 24)
	total := apt.NightlyRate.Mul(decimal.NewFromInt(nights))

	details := make([]GuestDetail, 0, len(req.GuestDetails))
	for _, g := range req.GuestDetails {
		details = append(details, GuestDetail{Name: g.Name, Age: g.Age, Gender: g.Gender, Phone: g.Phone})
	}

	b, err := h.Bookings.Create(r.Context(), CreateInput{
		UserID:       u.ID,
		ApartmentID:  apt.ID,
		StartDate:    start,
		EndDate:      end,
		Guests:       req.Guests,
		TotalAmount:  total,
		Currency:     "INR",
		GuestDetails: details,
	})
	if err != nil {
		h.Log.Error("booking create failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	_ = h.Events.Insert(r.Context(), b.ID, "BOOKING_CREATED", "Booking request submitted", u.Email, time.Now(), nil)
	_ = h.Audit.Insert(r.Context(), u.ID, &b.ID, "BOOKING_CREATED", u.Email, map[string]any{"apartmentId": apt.ID})

	api.WriteJSON(w, http.StatusCreated, h.view(*b))
}

// ListMine returns the guest dashboard booking list.
func (h Handlers) ListMine(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	items, err := h.Bookings.ListByUser(r.Context(), u.ID)
	if err != nil {
		h.Log.Error("booking list failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": h.views(items)})
}

func (h Handlers) GetMine(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	id, err := parseID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking id")
		return
	}

	b, err := h.Bookings.GetForUser(r.Context(), id, u.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, h.view(*b))
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelMine lets a guest cancel their own booking.
func (h Handlers) CancelMine(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return
	}

	id, err := parseID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking id")
		return
	}
	// Ownership check before any mutation.
	if _, err := h.Bookings.GetForUser(r.Context(), id, u.ID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	var req cancelRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	h.transition(w, r, id, StatusCancelled, u.Email, req.Reason)
}

// --- admin handlers ---

func (h Handlers) AdminList(w http.ResponseWriter, r *http.Request) {
	var f ListFilter
	if s := r.URL.Query().Get("status"); s != "" {
		st, err := ParseStatus(s)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
			return
		}
		f.Status = st
	}
	if s := r.URL.Query().Get("payment_status"); s != "" {
		f.PaymentStatus = PaymentStatus(s)
	}
	if s := r.URL.Query().Get("apartment_id"); s != "" {
		f.ApartmentID, _ = strconv.ParseInt(s, 10, 64)
	}

	items, err := h.Bookings.List(r.Context(), f)
	if err != nil {
		h.Log.Error("admin booking list failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": h.views(items)})
}

func (h Handlers) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking id")
		return
	}
	b, err := h.Bookings.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, h.view(*b))
}

func (h Handlers) AdminStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.Bookings.Stats(r.Context())
	if err != nil {
		h.Log.Error("stats failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, s)
}

func (h Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking id")
		return
	}
	u := api.UserFromContext(r.Context())
	h.transition(w, r, id, StatusConfirmed, u.Email, "")
}

func (h Handlers) AdminCancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking id")
		return
	}

	var req cancelRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	u := api.UserFromContext(r.Context())
	h.transition(w, r, id, StatusCancelled, u.Email, req.Reason)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking id")
		return
	}

	u := api.UserFromContext(r.Context())
	if err := h.Bookings.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, err)
		return
	}
	_ = h.Audit.Insert(r.Context(), u.ID, nil, "BOOKING_DELETED", u.Email, map[string]any{"bookingId": id})

	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) EventsTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid booking id")
		return
	}
	items, err := h.Events.ListByBooking(r.Context(), id)
	if err != nil {
		h.Log.Error("events list failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// transition runs the state machine and records the outcome.
func (h Handlers) transition(w http.ResponseWriter, r *http.Request, id int64, target Status, actor, reason string) {
	b, err := h.Machine.RequestTransition(r.Context(), id, target, actor, reason)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	summary := "Booking " + string(target)
	meta := map[string]any{"status": target}
	if reason != "" {
		meta["reason"] = reason
	}
	_ = h.Events.Insert(r.Context(), b.ID, "BOOKING_"+statusEvent(target), summary, actor, time.Now(), meta)
	_ = h.Audit.Insert(r.Context(), b.UserID, &b.ID, "BOOKING_"+statusEvent(target), actor, meta)

	api.WriteJSON(w, http.StatusOK, h.view(*b))
}

func (h Handlers) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
	case errors.Is(err, ErrIllegalTransition):
		api.WriteError(w, http.StatusConflict, "ILLEGAL_TRANSITION", err.Error())
	case errors.Is(err, ErrDocumentNotVerified):
		api.WriteError(w, http.StatusConflict, "DOCUMENT_NOT_VERIFIED", err.Error())
	case errors.Is(err, ErrConcurrentModification):
		api.WriteError(w, http.StatusConflict, "CONCURRENT_MODIFICATION", err.Error())
	default:
		h.Log.Error("booking handler error", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func statusEvent(s Status) string {
	switch s {
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusExpired:
		return "EXPIRED"
	case StatusOngoing:
		return "ONGOING"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "UPDATED"
	}
}
