package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/services"
	"github.com/drims/disaster-server/internal/store"
)

// ShelterHandler handles shelter endpoints
type ShelterHandler struct {
	shelterSvc *services.ShelterService
	logger     *zap.SugaredLogger
}

// NewShelterHandler creates a new shelter handler
func NewShelterHandler(ss *services.ShelterService, logger *zap.SugaredLogger) *ShelterHandler {
	return &ShelterHandler{shelterSvc: ss, logger: logger}
}

// Create handles POST /api/v1/shelters
func (h *ShelterHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req models.ShelterSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	shelter, err := h.shelterSvc.Create(r.Context(), a, &req)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, shelter)
}

// Update handles PUT /api/v1/shelters/{id}
func (h *ShelterHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid shelter ID")
		return
	}
	var req models.ShelterSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	shelter, err := h.shelterSvc.Update(r.Context(), a, id, &req)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, shelter)
}

// ToggleActive handles POST /api/v1/shelters/{id}/toggle
func (h *ShelterHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid shelter ID")
		return
	}

	shelter, err := h.shelterSvc.ToggleActive(r.Context(), a, id)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, shelter)
}

// List handles GET /api/v1/shelters
func (h *ShelterHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ShelterFilter{
		Location:  q.Get("location"),
		Capacity:  q.Get("capacity"),
		Occupancy: q.Get("occupancy"),
	}
	if q.Get("active") != "false" {
		f.ActiveOnly = true
	}

	list, err := h.shelterSvc.List(r.Context(), f)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}
