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

const userColumns = `id, username, email, password_hash, first_name, last_name, role, phone, address, is_active, date_joined`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.Role, &u.Phone, &u.Address, &u.IsActive, &u.DateJoined)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, role, phone, address, is_active, date_joined)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Role, u.Phone, u.Address, u.IsActive, u.DateJoined)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, first_name = $5,
			last_name = $6, phone = $7, address = $8, is_active = $9
		WHERE id = $1
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Phone, u.Address, u.IsActive)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
