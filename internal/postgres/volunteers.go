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

func (s *Store) CreateSkill(ctx context.Context, sk *models.Skill) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO skills (id, name, description) VALUES ($1, $2, $3)
	`, sk.ID, sk.Name, sk.Description)
	if err != nil {
		return fmt.Errorf("insert skill: %w", err)
	}
	return nil
}

func (s *Store) ListSkills(ctx context.Context) ([]models.Skill, error) {
	rows, err := s.q.Query(ctx, `SELECT id, name, description FROM skills ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()
	return collectSkills(rows)
}

func (s *Store) GetSkills(ctx context.Context, ids []uuid.UUID) ([]models.Skill, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, `SELECT id, name, description FROM skills WHERE id = ANY($1) ORDER BY name`, ids)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()
	skills, err := collectSkills(rows)
	if err != nil {
		return nil, err
	}
	// ANY($1) yields one row per matching skill, so fewer rows than
	// distinct requested IDs means at least one ID does not exist.
	if len(skills) < distinctCount(ids) {
		return nil, store.ErrNotFound
	}
	return skills, nil
}

func distinctCount(ids []uuid.UUID) int {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

func collectSkills(rows pgx.Rows) ([]models.Skill, error) {
	var skills []models.Skill
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Description); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}
	return skills, nil
}

func (s *Store) CreateVolunteerProfile(ctx context.Context, p *models.VolunteerProfile) error {
	return s.Tx(ctx, func(tx store.Store) error {
		txs := tx.(*Store)

		var role models.Role
		err := txs.q.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, p.UserID).Scan(&role)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return store.ErrNotFound
			}
			return fmt.Errorf("select user role: %w", err)
		}
		if role != models.RoleVolunteer {
			return store.ErrProfileRole
		}

		_, err = txs.q.Exec(ctx, `
			INSERT INTO volunteer_profiles (user_id, availability) VALUES ($1, $2)
		`, p.UserID, p.Availability)
		if err != nil {
			return fmt.Errorf("insert volunteer profile: %w", err)
		}
		return txs.replaceProfileSkills(ctx, p.UserID, p.SkillIDs)
	})
}

func (s *Store) GetVolunteerProfile(ctx context.Context, userID uuid.UUID) (*models.VolunteerProfile, error) {
	var p models.VolunteerProfile
	err := s.q.QueryRow(ctx, `
		SELECT user_id, availability FROM volunteer_profiles WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.Availability)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("select volunteer profile: %w", err)
	}
	if err := s.loadProfileSkills(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdateVolunteerProfile(ctx context.Context, p *models.VolunteerProfile) error {
	return s.Tx(ctx, func(tx store.Store) error {
		txs := tx.(*Store)

		tag, err := txs.q.Exec(ctx, `
			UPDATE volunteer_profiles SET availability = $2 WHERE user_id = $1
		`, p.UserID, p.Availability)
		if err != nil {
			return fmt.Errorf("update volunteer profile: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return txs.replaceProfileSkills(ctx, p.UserID, p.SkillIDs)
	})
}

func (s *Store) ListVolunteerProfiles(ctx context.Context, f store.VolunteerFilter) ([]models.VolunteerProfile, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Availability != "" {
		where = append(where, "p.availability = "+arg(f.Availability))
	}
	if f.SkillID != uuid.Nil {
		where = append(where, "EXISTS (SELECT 1 FROM profile_skills ps WHERE ps.user_id = p.user_id AND ps.skill_id = "+arg(f.SkillID)+")")
	}

	query := `SELECT p.user_id, p.availability FROM volunteer_profiles p`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.user_id"

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query volunteer profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.VolunteerProfile
	for rows.Next() {
		var p models.VolunteerProfile
		if err := rows.Scan(&p.UserID, &p.Availability); err != nil {
			return nil, fmt.Errorf("scan volunteer profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteer profiles: %w", err)
	}

	for i := range profiles {
		if err := s.loadProfileSkills(ctx, &profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

func (s *Store) loadProfileSkills(ctx context.Context, p *models.VolunteerProfile) error {
	rows, err := s.q.Query(ctx, `
		SELECT ps.skill_id FROM profile_skills ps
		JOIN skills sk ON sk.id = ps.skill_id
		WHERE ps.user_id = $1
		ORDER BY sk.name
	`, p.UserID)
	if err != nil {
		return fmt.Errorf("query profile skills: %w", err)
	}
	defer rows.Close()

	p.SkillIDs = nil
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan profile skill: %w", err)
		}
		p.SkillIDs = append(p.SkillIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate profile skills: %w", err)
	}
	return nil
}

func (s *Store) replaceProfileSkills(ctx context.Context, userID uuid.UUID, skillIDs []uuid.UUID) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM profile_skills WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete profile skills: %w", err)
	}
	for _, id := range skillIDs {
		_, err := s.q.Exec(ctx, `
			INSERT INTO profile_skills (user_id, skill_id) VALUES ($1, $2)
		`, userID, id)
		if err != nil {
			return fmt.Errorf("insert profile skill: %w", err)
		}
	}
	return nil
}
