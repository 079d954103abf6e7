package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/middleware"
	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/services"
	"github.com/drims/disaster-server/internal/store"
)

// ReportHandler handles disaster report endpoints
type ReportHandler struct {
	reportSvc *services.ReportService
	logger    *zap.SugaredLogger
}

// NewReportHandler creates a new report handler
func NewReportHandler(rs *services.ReportService, logger *zap.SugaredLogger) *ReportHandler {
	return &ReportHandler{reportSvc: rs, logger: logger}
}

// Create handles POST /api/v1/reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req models.ReportSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.reportSvc.Create(r.Context(), a, &req)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, report)
}

// Get handles GET /api/v1/reports/{id}. Public: anonymous callers see
// only active reports.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, _ := middleware.ActorFrom(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	report, err := h.reportSvc.Get(r.Context(), a, id)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// List handles GET /api/v1/reports. Public: non-authorities get only
// active reports regardless of the filter.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	a, _ := middleware.ActorFrom(r.Context())

	q := r.URL.Query()
	f := store.ReportFilter{
		DisasterType: models.DisasterType(q.Get("disaster_type")),
		DateRange:    q.Get("date_range"),
		Location:     q.Get("location"),
		SortBy:       q.Get("sort"),
	}
	if sev := q.Get("severity"); sev != "" {
		f.Severity, _ = strconv.Atoi(sev)
	}
	if q.Get("active") == "true" {
		f.ActiveOnly = true
	}

	reports, err := h.reportSvc.List(r.Context(), a, f)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// ToggleActive handles POST /api/v1/reports/{id}/toggle
func (h *ReportHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	report, err := h.reportSvc.ToggleActive(r.Context(), a, id)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}
