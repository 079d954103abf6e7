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

// AuthHandler handles registration, login and account administration.
type AuthHandler struct {
	authSvc *services.AuthService
	logger  *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(as *services.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{authSvc: as, logger: logger}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authSvc.Register(r.Context(), &req)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), &creds)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// ToggleUserActive handles POST /api/v1/users/{id}/toggle
func (h *AuthHandler) ToggleUserActive(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.authSvc.ToggleUserActive(r.Context(), a, id)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
