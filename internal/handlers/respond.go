// Package handlers contains HTTP request handlers for the disaster
// response API. Handlers parse requests, call services, and return JSON
// responses.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/middleware"
	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/services"
)

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// serviceError maps the service error taxonomy to HTTP status codes.
func serviceError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrIllegalTransition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotAVolunteer):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Errorw("Internal error", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// actor extracts the authenticated actor, responding 401 when missing.
func actor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
	}
	return a, ok
}
