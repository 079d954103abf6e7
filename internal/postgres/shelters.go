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

const shelterColumns = `id, name, address, latitude, longitude, capacity, current_occupancy, contact_info, is_active, created_at`

func scanShelter(row pgx.Row) (*models.Shelter, error) {
	var sh models.Shelter
	err := row.Scan(&sh.ID, &sh.Name, &sh.Address, &sh.Latitude, &sh.Longitude,
		&sh.Capacity, &sh.CurrentOccupancy, &sh.ContactInfo, &sh.IsActive, &sh.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scan shelter: %w", err)
	}
	return &sh, nil
}

func (s *Store) CreateShelter(ctx context.Context, sh *models.Shelter) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO shelters (id, name, address, latitude, longitude, capacity, current_occupancy, contact_info, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, sh.ID, sh.Name, sh.Address, sh.Latitude, sh.Longitude, sh.Capacity,
		sh.CurrentOccupancy, sh.ContactInfo, sh.IsActive, sh.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert shelter: %w", err)
	}
	return nil
}

func (s *Store) GetShelter(ctx context.Context, id uuid.UUID) (*models.Shelter, error) {
	row := s.q.QueryRow(ctx, `SELECT `+shelterColumns+` FROM shelters WHERE id = $1`, id)
	return scanShelter(row)
}

func (s *Store) UpdateShelter(ctx context.Context, sh *models.Shelter) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE shelters
		SET name = $2, address = $3, latitude = $4, longitude = $5, capacity = $6,
			current_occupancy = $7, contact_info = $8, is_active = $9
		WHERE id = $1
	`, sh.ID, sh.Name, sh.Address, sh.Latitude, sh.Longitude, sh.Capacity,
		sh.CurrentOccupancy, sh.ContactInfo, sh.IsActive)
	if err != nil {
		return fmt.Errorf("update shelter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListShelters(ctx context.Context, f store.ShelterFilter) ([]models.Shelter, error) {
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
	if f.Location != "" {
		p := arg("%" + f.Location + "%")
		where = append(where, "(name ILIKE "+p+" OR address ILIKE "+p+")")
	}
	switch f.Capacity {
	case store.CapacitySmall:
		where = append(where, "capacity < 50")
	case store.CapacityMedium:
		where = append(where, "capacity BETWEEN 50 AND 100")
	case store.CapacityLarge:
		where = append(where, "capacity > 100")
	}
	switch f.Occupancy {
	case store.OccupancyAvailable:
		where = append(where, "current_occupancy < capacity")
	case store.OccupancyFull:
		where = append(where, "current_occupancy >= capacity")
	}

	query := `SELECT ` + shelterColumns + ` FROM shelters`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shelters: %w", err)
	}
	defer rows.Close()

	var shelters []models.Shelter
	for rows.Next() {
		sh, err := scanShelter(rows)
		if err != nil {
			return nil, err
		}
		shelters = append(shelters, *sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shelters: %w", err)
	}
	return shelters, nil
}
