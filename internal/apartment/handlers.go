package apartment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"staybook/internal/api"
	"staybook/internal/gallery"
)

type Handlers struct {
	Apartments *Repository
	Gallery    *gallery.Repository
	Log        *zap.Logger
}

// List is the public browse endpoint.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	f := ListFilter{ActiveOnly: true, Location: r.URL.Query().Get("location")}
	if s := r.URL.Query().Get("bedrooms"); s != "" {
		f.Bedrooms, _ = strconv.Atoi(s)
	}

	items, err := h.Apartments.List(r.Context(), f)
	if err != nil {
		h.Log.Error("apartment list failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Get returns one apartment with its gallery.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid apartment id")
		return
	}

	apt, err := h.Apartments.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "apartment not found")
			return
		}
		h.Log.Error("apartment get failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	images, err := h.Gallery.ListByApartment(r.Context(), id)
	if err != nil {
		h.Log.Error("gallery list failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"apartment": apt, "gallery": images})
}

type upsertRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location" validate:"required"`
	Bedrooms    int    `json:"bedrooms" validate:"required,min=1"`
	Bathrooms   int    `json:"bathrooms" validate:"required,min=1"`
	MaxGuests   int    `json:"maxGuests" validate:"required,min=1"`
	NightlyRate string `json:"nightlyRate" validate:"required"`
	MonthlyRate string `json:"monthlyRate" validate:"required"`
	Active      bool   `json:"active"`
}

func (h Handlers) decodeUpsert(w http.ResponseWriter, r *http.Request) (*Apartment, bool) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return nil, false
	}
	if problems := api.ValidateRequest(req); problems != nil {
		api.WriteValidationErrors(w, problems)
		return nil, false
	}

	nightly, err := decimal.NewFromString(req.NightlyRate)
	if err != nil || nightly.IsNegative() {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid nightlyRate")
		return nil, false
	}
	monthly, err := decimal.NewFromString(req.MonthlyRate)
	if err != nil || monthly.IsNegative() {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid monthlyRate")
		return nil, false
	}

	return &Apartment{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		MaxGuests:   req.MaxGuests,
		NightlyRate: nightly,
		MonthlyRate: monthly,
		Active:      req.Active,
	}, true
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	apt, ok := h.decodeUpsert(w, r)
	if !ok {
		return
	}

	created, err := h.Apartments.Create(r.Context(), apt)
	if err != nil {
		h.Log.Error("apartment create failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid apartment id")
		return
	}

	apt, ok := h.decodeUpsert(w, r)
	if !ok {
		return
	}
	apt.ID = id

	updated, err := h.Apartments.Update(r.Context(), apt)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "apartment not found")
			return
		}
		h.Log.Error("apartment update failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}
