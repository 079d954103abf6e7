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

// VolunteerHandler handles volunteer profile and skill endpoints
type VolunteerHandler struct {
	volunteerSvc *services.VolunteerService
	logger       *zap.SugaredLogger
}

// NewVolunteerHandler creates a new volunteer handler
func NewVolunteerHandler(vs *services.VolunteerService, logger *zap.SugaredLogger) *VolunteerHandler {
	return &VolunteerHandler{volunteerSvc: vs, logger: logger}
}

// Profile handles GET /api/v1/volunteer/profile
func (h *VolunteerHandler) Profile(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	profile, err := h.volunteerSvc.Profile(r.Context(), a)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/volunteer/profile
func (h *VolunteerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.volunteerSvc.UpdateProfile(r.Context(), a, &req)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// AvailableForRequest handles GET /api/v1/aid-requests/{id}/volunteers
func (h *VolunteerHandler) AvailableForRequest(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid aid request ID")
		return
	}

	volunteers, err := h.volunteerSvc.AvailableForRequest(r.Context(), a, id)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"volunteers": volunteers,
		"count":      len(volunteers),
	})
}

// List handles GET /api/v1/volunteers
func (h *VolunteerHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	f := store.VolunteerFilter{
		Availability: models.Availability(q.Get("availability")),
	}
	if skill := q.Get("skill_id"); skill != "" {
		id, err := uuid.Parse(skill)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid skill ID")
			return
		}
		f.SkillID = id
	}

	profiles, err := h.volunteerSvc.List(r.Context(), a, f)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"volunteers": profiles,
		"count":      len(profiles),
	})
}

// Detail handles GET /api/v1/volunteers/{id}
func (h *VolunteerHandler) Detail(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid volunteer ID")
		return
	}

	detail, err := h.volunteerSvc.Detail(r.Context(), a, id)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// Skills handles GET /api/v1/skills
func (h *VolunteerHandler) Skills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.volunteerSvc.Skills(r.Context())
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"skills": skills,
		"count":  len(skills),
	})
}

// CreateSkill handles POST /api/v1/skills
func (h *VolunteerHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req models.SkillSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	skill, err := h.volunteerSvc.CreateSkill(r.Context(), a, &req)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, skill)
}
