package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/services"
)

// DashboardHandler handles the authority dashboard endpoint
type DashboardHandler struct {
	dashboardSvc *services.DashboardService
	logger       *zap.SugaredLogger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(ds *services.DashboardService, logger *zap.SugaredLogger) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: ds, logger: logger}
}

// Stats handles GET /api/v1/dashboard
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	stats, err := h.dashboardSvc.Stats(r.Context(), a)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
