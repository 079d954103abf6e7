package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

// VolunteerService handles volunteer profiles, the skill catalogue and the
// volunteer read models served to authorities.
type VolunteerService struct {
	store  store.Store
	logger *zap.SugaredLogger
}

// NewVolunteerService creates a new volunteer service.
func NewVolunteerService(st store.Store, logger *zap.SugaredLogger) *VolunteerService {
	return &VolunteerService{store: st, logger: logger}
}

// Profile returns the actor's volunteer profile, creating an empty
// available one if registration predates profile support.
func (s *VolunteerService) Profile(ctx context.Context, actor models.Actor) (*models.VolunteerProfile, error) {
	if err := requireRole(actor, models.RoleVolunteer); err != nil {
		return nil, err
	}

	profile, err := s.store.GetVolunteerProfile(ctx, actor.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile = &models.VolunteerProfile{
		UserID:       actor.ID,
		Availability: models.Available,
	}
	if err := s.store.CreateVolunteerProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrProfileRole) {
			return nil, fmt.Errorf("%w: only volunteers can have a profile", ErrValidation)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile sets the actor's availability and skills. Only users with
// the volunteer role can hold a profile; every referenced skill must
// exist.
func (s *VolunteerService) UpdateProfile(ctx context.Context, actor models.Actor, req *models.ProfileUpdate) (*models.VolunteerProfile, error) {
	if err := requireRole(actor, models.RoleVolunteer); err != nil {
		return nil, err
	}
	if !models.ValidAvailability(req.Availability) {
		return nil, fmt.Errorf("%w: unknown availability %q", ErrValidation, req.Availability)
	}
	if len(req.SkillIDs) > 0 {
		if _, err := s.store.GetSkills(ctx, req.SkillIDs); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown skill referenced", ErrValidation)
			}
			return nil, fmt.Errorf("get skills: %w", err)
		}
	}

	profile, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}

	profile.Availability = req.Availability
	profile.SkillIDs = req.SkillIDs
	if err := s.store.UpdateVolunteerProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Infow("Volunteer profile updated",
		"user", actor.ID,
		"availability", profile.Availability,
		"skills", len(profile.SkillIDs),
	)
	return profile, nil
}

// AvailableForRequest lists available volunteers as assignment candidates
// for an aid request. Authority only.
func (s *VolunteerService) AvailableForRequest(ctx context.Context, actor models.Actor, aidRequestID uuid.UUID) ([]models.AvailableVolunteer, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}
	if _, err := s.store.GetAidRequest(ctx, aidRequestID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: aid request %s", ErrNotFound, aidRequestID)
		}
		return nil, fmt.Errorf("get aid request: %w", err)
	}

	profiles, err := s.store.ListVolunteerProfiles(ctx, store.VolunteerFilter{Availability: models.Available})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	out := make([]models.AvailableVolunteer, 0, len(profiles))
	for _, p := range profiles {
		user, err := s.store.GetUser(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}
		skills, err := s.skillNames(ctx, p.SkillIDs)
		if err != nil {
			return nil, err
		}
		count, err := s.store.CountAssignmentsByVolunteer(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("count assignments: %w", err)
		}
		out = append(out, models.AvailableVolunteer{
			ID:               user.ID,
			Name:             user.FullName(),
			Skills:           skills,
			AssignmentsCount: count,
		})
	}
	return out, nil
}

// List returns volunteer profiles matching the filter. Authority only.
func (s *VolunteerService) List(ctx context.Context, actor models.Actor, f store.VolunteerFilter) ([]models.VolunteerProfile, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}
	profiles, err := s.store.ListVolunteerProfiles(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Detail returns the full volunteer profile read model, including the
// assignment history. Authority only.
func (s *VolunteerService) Detail(ctx context.Context, actor models.Actor, userID uuid.UUID) (*models.VolunteerDetail, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}

	profile, err := s.store.GetVolunteerProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: volunteer %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	skills, err := s.skillNames(ctx, profile.SkillIDs)
	if err != nil {
		return nil, err
	}

	assignments, err := s.store.ListAssignmentsByVolunteer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	summaries := make([]models.AssignmentSummary, 0, len(assignments))
	for _, a := range assignments {
		request, err := s.store.GetAidRequest(ctx, a.AidRequestID)
		if err != nil {
			return nil, fmt.Errorf("get aid request: %w", err)
		}
		summaries = append(summaries, models.AssignmentSummary{
			ID:          a.ID,
			AidType:     request.AidType,
			Location:    request.Location,
			Status:      a.Status,
			AssignedAt:  a.AssignedAt,
			CompletedAt: a.CompletedAt,
		})
	}

	return &models.VolunteerDetail{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName(),
		Email:           user.Email,
		Phone:           user.Phone,
		Address:         user.Address,
		DateJoined:      user.DateJoined,
		Availability:    profile.Availability,
		Skills:          skills,
		AssignmentCount: len(summaries),
		Assignments:     summaries,
	}, nil
}

// Skills returns the skill catalogue.
func (s *VolunteerService) Skills(ctx context.Context) ([]models.Skill, error) {
	skills, err := s.store.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

// CreateSkill adds a skill to the catalogue. Authority only.
func (s *VolunteerService) CreateSkill(ctx context.Context, actor models.Actor, req *models.SkillSubmission) (*models.Skill, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	skill := &models.Skill{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.store.CreateSkill(ctx, skill); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}

	s.logger.Infow("Skill created", "id", skill.ID, "name", skill.Name)
	return skill, nil
}

func (s *VolunteerService) skillNames(ctx context.Context, ids []uuid.UUID) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	skills, err := s.store.GetSkills(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get skills: %w", err)
	}
	names := make([]string, 0, len(skills))
	for _, sk := range skills {
		names = append(names, sk.Name)
	}
	return names, nil
}
