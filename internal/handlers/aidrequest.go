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

// AidRequestHandler handles aid request endpoints
type AidRequestHandler struct {
	requestSvc *services.AidRequestService
	logger     *zap.SugaredLogger
}

// NewAidRequestHandler creates a new aid request handler
func NewAidRequestHandler(rs *services.AidRequestService, logger *zap.SugaredLogger) *AidRequestHandler {
	return &AidRequestHandler{requestSvc: rs, logger: logger}
}

// Create handles POST /api/v1/aid-requests
func (h *AidRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req models.AidRequestSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	request, err := h.requestSvc.Create(r.Context(), a, &req)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, request)
}

// ListMine handles GET /api/v1/aid-requests/mine
func (h *AidRequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	requests, err := h.requestSvc.ListMine(r.Context(), a)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"aid_requests": requests,
		"count":        len(requests),
	})
}

// List handles GET /api/v1/aid-requests
func (h *AidRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	f := store.AidRequestFilter{
		AidType: models.AidType(q.Get("aid_type")),
		Status:  models.AidRequestStatus(q.Get("status")),
	}

	requests, err := h.requestSvc.List(r.Context(), a, f)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"aid_requests": requests,
		"count":        len(requests),
	})
}

// Get handles GET /api/v1/aid-requests/{id}
func (h *AidRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid aid request ID")
		return
	}

	request, err := h.requestSvc.Get(r.Context(), a, id)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, request)
}

// Detail handles GET /api/v1/aid-requests/{id}/detail
func (h *AidRequestHandler) Detail(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid aid request ID")
		return
	}

	detail, err := h.requestSvc.Detail(r.Context(), a, id)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// UpdateStatus handles PUT /api/v1/aid-requests/{id}/status
func (h *AidRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid aid request ID")
		return
	}
	var req models.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	request, err := h.requestSvc.UpdateStatus(r.Context(), a, id, req.Status)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, request)
}
