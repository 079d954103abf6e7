package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

const reportColumns = `id, reporter_id, disaster_type, location, latitude, longitude, severity, description, reported_at, is_active, people_affected, area_affected, infrastructure_damage`

func scanReport(row pgx.Row) (*models.DisasterReport, error) {
	var r models.DisasterReport
	err := row.Scan(&r.ID, &r.ReporterID, &r.DisasterType, &r.Location, &r.Latitude,
		&r.Longitude, &r.Severity, &r.Description, &r.ReportedAt, &r.IsActive,
		&r.PeopleAffected, &r.AreaAffected, &r.InfrastructureDamage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}
	return &r, nil
}

func (s *Store) CreateDisasterReport(ctx context.Context, r *models.DisasterReport) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO disaster_reports (id, reporter_id, disaster_type, location, latitude, longitude, severity, description, reported_at, is_active, people_affected, area_affected, infrastructure_damage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.ID, r.ReporterID, r.DisasterType, r.Location, r.Latitude, r.Longitude,
		r.Severity, r.Description, r.ReportedAt, r.IsActive, r.PeopleAffected,
		r.AreaAffected, r.InfrastructureDamage)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *Store) GetDisasterReport(ctx context.Context, id uuid.UUID) (*models.DisasterReport, error) {
	row := s.q.QueryRow(ctx, `SELECT `+reportColumns+` FROM disaster_reports WHERE id = $1`, id)
	return scanReport(row)
}

func (s *Store) UpdateDisasterReport(ctx context.Context, r *models.DisasterReport) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE disaster_reports SET is_active = $2 WHERE id = $1
	`, r.ID, r.IsActive)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListDisasterReports(ctx context.Context, f store.ReportFilter) ([]models.DisasterReport, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ActiveOnly {
		where = append(where, "is_active = TRUE")
	}
	if f.DisasterType != "" {
		where = append(where, "disaster_type = "+arg(f.DisasterType))
	}
	if f.Severity != 0 {
		where = append(where, "severity = "+arg(f.Severity))
	}
	switch f.DateRange {
	case store.RangeToday:
		where = append(where, "reported_at::date = CURRENT_DATE")
	case store.RangeWeek:
		where = append(where, "reported_at > NOW() - INTERVAL '7 days'")
	case store.RangeMonth:
		where = append(where, "reported_at > NOW() - INTERVAL '30 days'")
	}
	if f.Location != "" {
		where = append(where, "location ILIKE "+arg("%"+f.Location+"%"))
	}

	query := `SELECT ` + reportColumns + ` FROM disaster_reports`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	switch f.SortBy {
	case store.SortDateAsc:
		query += " ORDER BY reported_at ASC"
	case store.SortSeverityDesc:
		query += " ORDER BY severity DESC, reported_at DESC"
	case store.SortSeverityAsc:
		query += " ORDER BY severity ASC, reported_at DESC"
	default:
		query += " ORDER BY reported_at DESC"
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.DisasterReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}
