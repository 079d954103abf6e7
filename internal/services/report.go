package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

// ReportService handles disaster report submission, visibility and listing.
type ReportService struct {
	store  store.Store
	logger *zap.SugaredLogger
}

// NewReportService creates a new report service.
func NewReportService(st store.Store, logger *zap.SugaredLogger) *ReportService {
	return &ReportService{store: st, logger: logger}
}

// Create files a disaster report. Citizens only. New reports start
// inactive (not publicly visible) until an authority activates them.
func (s *ReportService) Create(ctx context.Context, actor models.Actor, req *models.ReportSubmission) (*models.DisasterReport, error) {
	if err := requireRole(actor, models.RoleCitizen); err != nil {
		return nil, err
	}
	if !models.ValidDisasterType(req.DisasterType) {
		return nil, fmt.Errorf("%w: unknown disaster type %q", ErrValidation, req.DisasterType)
	}
	if req.Severity < models.SeverityMin || req.Severity > models.SeverityMax {
		return nil, fmt.Errorf("%w: severity must be between %d and %d", ErrValidation, models.SeverityMin, models.SeverityMax)
	}
	if req.Location == "" || req.Description == "" {
		return nil, fmt.Errorf("%w: location and description are required", ErrValidation)
	}
	if req.InfrastructureDamage != nil && !models.ValidDamageLevel(*req.InfrastructureDamage) {
		return nil, fmt.Errorf("%w: unknown damage level %q", ErrValidation, *req.InfrastructureDamage)
	}

	report := &models.DisasterReport{
		ID:                   uuid.New(),
		ReporterID:           actor.ID,
		DisasterType:         req.DisasterType,
		Location:             req.Location,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		Severity:             req.Severity,
		Description:          req.Description,
		ReportedAt:           time.Now(),
		IsActive:             false,
		PeopleAffected:       req.PeopleAffected,
		AreaAffected:         req.AreaAffected,
		InfrastructureDamage: req.InfrastructureDamage,
	}

	if err := s.store.CreateDisasterReport(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.logger.Infow("Disaster report filed",
		"id", report.ID,
		"type", report.DisasterType,
		"severity", report.Severity,
		"location", report.Location,
	)
	return report, nil
}

// Get returns a single report. Inactive reports are visible only to
// authorities; everyone else gets NotFound.
func (s *ReportService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.DisasterReport, error) {
	report, err := s.store.GetDisasterReport(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: report %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	if !report.IsActive && actor.Role != models.RoleAuthority {
		return nil, fmt.Errorf("%w: report %s", ErrNotFound, id)
	}
	return report, nil
}

// List returns reports matching the filter. Non-authorities see only
// active reports regardless of the requested filter.
func (s *ReportService) List(ctx context.Context, actor models.Actor, f store.ReportFilter) ([]models.DisasterReport, error) {
	if actor.Role != models.RoleAuthority {
		f.ActiveOnly = true
	}
	reports, err := s.store.ListDisasterReports(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// ToggleActive flips a report's public visibility. Authority only.
func (s *ReportService) ToggleActive(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.DisasterReport, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}

	report, err := s.store.GetDisasterReport(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: report %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	report.IsActive = !report.IsActive
	if err := s.store.UpdateDisasterReport(ctx, report); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}

	s.logger.Infow("Disaster report visibility toggled",
		"id", report.ID,
		"is_active", report.IsActive,
		"by", actor.ID,
	)
	return report, nil
}
