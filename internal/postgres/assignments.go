package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

const assignmentColumns = `id, volunteer_id, aid_request_id, assigned_by, status, assigned_at, completed_at, notes`

func scanAssignment(row pgx.Row) (*models.VolunteerAssignment, error) {
	var a models.VolunteerAssignment
	err := row.Scan(&a.ID, &a.VolunteerID, &a.AidRequestID, &a.AssignedBy,
		&a.Status, &a.AssignedAt, &a.CompletedAt, &a.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	return &a, nil
}

func (s *Store) CreateAssignment(ctx context.Context, a *models.VolunteerAssignment) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO volunteer_assignments (id, volunteer_id, aid_request_id, assigned_by, status, assigned_at, completed_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, a.VolunteerID, a.AidRequestID, a.AssignedBy, a.Status, a.AssignedAt,
		a.CompletedAt, a.Notes)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, id uuid.UUID) (*models.VolunteerAssignment, error) {
	row := s.q.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM volunteer_assignments WHERE id = $1`, id)
	return scanAssignment(row)
}

func (s *Store) UpdateAssignment(ctx context.Context, a *models.VolunteerAssignment) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE volunteer_assignments SET status = $2, completed_at = $3, notes = $4 WHERE id = $1
	`, a.ID, a.Status, a.CompletedAt, a.Notes)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListAssignmentsByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.VolunteerAssignment, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+assignmentColumns+` FROM volunteer_assignments
		WHERE volunteer_id = $1
		ORDER BY assigned_at DESC
	`, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.VolunteerAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return assignments, nil
}

func (s *Store) CountAssignmentsByVolunteer(ctx context.Context, volunteerID uuid.UUID) (int, error) {
	var n int
	err := s.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM volunteer_assignments WHERE volunteer_id = $1
	`, volunteerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return n, nil
}

func (s *Store) HasActiveAssignment(ctx context.Context, aidRequestID uuid.UUID) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM volunteer_assignments
			WHERE aid_request_id = $1 AND status <> 'cancelled'
		)
	`, aidRequestID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active assignment: %w", err)
	}
	return exists, nil
}
