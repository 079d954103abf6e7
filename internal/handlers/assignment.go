package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/services"
)

// AssignmentHandler handles volunteer assignment endpoints
type AssignmentHandler struct {
	assignmentSvc *services.AssignmentService
	logger        *zap.SugaredLogger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(as *services.AssignmentService, logger *zap.SugaredLogger) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: as, logger: logger}
}

// Assign handles POST /api/v1/assignments
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req models.AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	assignment, err := h.assignmentSvc.Assign(r.Context(), a, &req)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, assignment)
}

// UpdateStatus handles PUT /api/v1/assignments/{id}/status
func (h *AssignmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}
	var req models.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	assignment, err := h.assignmentSvc.UpdateStatus(r.Context(), a, id, req.Status)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, assignment)
}

// Cancel handles POST /api/v1/assignments/{id}/cancel
func (h *AssignmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}

	assignment, err := h.assignmentSvc.Cancel(r.Context(), a, id)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, assignment)
}

// ListMine handles GET /api/v1/volunteer/assignments
func (h *AssignmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	assignments, err := h.assignmentSvc.ListMine(r.Context(), a)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": assignments,
		"count":       len(assignments),
	})
}
