package gallery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"staybook/internal/api"
	"staybook/internal/audit"
)

type Handlers struct {
	Images *Repository
	Audit  *audit.Repository
	Log    *zap.Logger
}

type createRequest struct {
	URL       string `json:"url" validate:"required,url"`
	Caption   string `json:"caption"`
	SortOrder int    `json:"sortOrder"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	apartmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid apartment id")
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

	img := &Image{
		ApartmentID: apartmentID,
		URL:         req.URL,
		Caption:     req.Caption,
		SortOrder:   req.SortOrder,
	}
	if err := h.Images.Insert(r.Context(), img); err != nil {
		h.Log.Error("gallery insert failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	u := api.UserFromContext(r.Context())
	_ = h.Audit.Insert(r.Context(), u.ID, nil, "GALLERY_IMAGE_ADDED", u.Email, map[string]any{
		"apartmentId": apartmentID,
		"imageId":     img.ID,
	})

	api.WriteJSON(w, http.StatusCreated, img)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	apartmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid apartment id")
		return
	}

	items, err := h.Images.ListByApartment(r.Context(), apartmentID)
	if err != nil {
		h.Log.Error("gallery list failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "imageId"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid image id")
		return
	}

	if err := h.Images.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "image not found")
			return
		}
		h.Log.Error("gallery delete failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	u := api.UserFromContext(r.Context())
	_ = h.Audit.Insert(r.Context(), u.ID, nil, "GALLERY_IMAGE_DELETED", u.Email, map[string]any{"imageId": id})

	w.WriteHeader(http.StatusNoContent)
}
