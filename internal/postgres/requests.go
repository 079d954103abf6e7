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

const aidRequestColumns = `id, requester_id, aid_type, description, location, latitude, longitude, num_people, status, requested_at, shelter_id, approved_by`

func scanAidRequest(row pgx.Row) (*models.AidRequest, error) {
	var r models.AidRequest
	err := row.Scan(&r.ID, &r.RequesterID, &r.AidType, &r.Description, &r.Location,
		&r.Latitude, &r.Longitude, &r.NumPeople, &r.Status, &r.RequestedAt,
		&r.ShelterID, &r.ApprovedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scan aid request: %w", err)
	}
	return &r, nil
}

func (s *Store) CreateAidRequest(ctx context.Context, r *models.AidRequest) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO aid_requests (id, requester_id, aid_type, description, location, latitude, longitude, num_people, status, requested_at, shelter_id, approved_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.ID, r.RequesterID, r.AidType, r.Description, r.Location, r.Latitude,
		r.Longitude, r.NumPeople, r.Status, r.RequestedAt, r.ShelterID, r.ApprovedBy)
	if err != nil {
		return fmt.Errorf("insert aid request: %w", err)
	}
	return nil
}

func (s *Store) GetAidRequest(ctx context.Context, id uuid.UUID) (*models.AidRequest, error) {
	row := s.q.QueryRow(ctx, `SELECT `+aidRequestColumns+` FROM aid_requests WHERE id = $1`, id)
	return scanAidRequest(row)
}

func (s *Store) UpdateAidRequest(ctx context.Context, r *models.AidRequest) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE aid_requests SET status = $2, shelter_id = $3, approved_by = $4 WHERE id = $1
	`, r.ID, r.Status, r.ShelterID, r.ApprovedBy)
	if err != nil {
		return fmt.Errorf("update aid request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListAidRequests(ctx context.Context, f store.AidRequestFilter) ([]models.AidRequest, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.RequesterID != uuid.Nil {
		where = append(where, "requester_id = "+arg(f.RequesterID))
	}
	if f.AidType != "" {
		where = append(where, "aid_type = "+arg(f.AidType))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}

	query := `SELECT ` + aidRequestColumns + ` FROM aid_requests`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY requested_at DESC"

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query aid requests: %w", err)
	}
	defer rows.Close()

	var requests []models.AidRequest
	for rows.Next() {
		r, err := scanAidRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aid requests: %w", err)
	}
	return requests, nil
}
