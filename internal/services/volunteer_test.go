package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

func TestVolunteerProfileUpdate(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewVolunteerService(st, testLogger())

	volunteer := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	skill, err := svc.CreateSkill(ctx, asActor(authority), &models.SkillSubmission{
		Name:        "first aid",
		Description: "certified first aider",
	})
	require.NoError(t, err)

	profile, err := svc.UpdateProfile(ctx, asActor(volunteer), &models.ProfileUpdate{
		Availability: models.Unavailable,
		SkillIDs:     []uuid.UUID{skill.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.Unavailable, profile.Availability)
	assert.Equal(t, []uuid.UUID{skill.ID}, profile.SkillIDs)

	t.Run("unknown availability", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, asActor(volunteer), &models.ProfileUpdate{
			Availability: "busy",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown skill", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, asActor(volunteer), &models.ProfileUpdate{
			Availability: models.Available,
			SkillIDs:     []uuid.UUID{uuid.New()},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("citizens have no profile", func(t *testing.T) {
		citizen := seedUser(t, st, models.RoleCitizen)
		_, err := svc.Profile(ctx, asActor(citizen))
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestVolunteerProfileCreatedOnFirstRead(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewVolunteerService(st, testLogger())

	// A volunteer account without a profile row, as registration
	// predating profile support would leave behind.
	volunteer := seedUser(t, st, models.RoleCitizen)
	volunteer.Role = models.RoleVolunteer
	require.NoError(t, st.UpdateUser(ctx, volunteer))

	profile, err := svc.Profile(ctx, models.Actor{ID: volunteer.ID, Role: models.RoleVolunteer})
	require.NoError(t, err)
	assert.Equal(t, models.Available, profile.Availability)
	assert.Empty(t, profile.SkillIDs)
}

func TestAvailableForRequest(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewVolunteerService(st, testLogger())
	assignSvc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	free := seedUser(t, st, models.RoleVolunteer)
	busy := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	// Tie up one volunteer.
	other := seedAidRequest(t, st, citizen, models.AidRequestApproved)
	_, err := assignSvc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
		AidRequestID: other.ID,
		VolunteerID:  busy.ID,
	})
	require.NoError(t, err)

	request := seedAidRequest(t, st, citizen, models.AidRequestApproved)
	candidates, err := svc.AvailableForRequest(ctx, asActor(authority), request.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, free.ID, candidates[0].ID)
	assert.Equal(t, 0, candidates[0].AssignmentsCount)

	t.Run("unknown aid request", func(t *testing.T) {
		_, err := svc.AvailableForRequest(ctx, asActor(authority), uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("authority only", func(t *testing.T) {
		_, err := svc.AvailableForRequest(ctx, asActor(citizen), request.ID)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestVolunteerDetail(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewVolunteerService(st, testLogger())
	assignSvc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	volunteer := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	request := seedAidRequest(t, st, citizen, models.AidRequestApproved)
	_, err := assignSvc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
		AidRequestID: request.ID,
		VolunteerID:  volunteer.ID,
	})
	require.NoError(t, err)

	detail, err := svc.Detail(ctx, asActor(authority), volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, volunteer.Username, detail.Username)
	assert.Equal(t, 1, detail.AssignmentCount)
	require.Len(t, detail.Assignments, 1)
	assert.Equal(t, request.AidType, detail.Assignments[0].AidType)
	assert.Equal(t, request.Location, detail.Assignments[0].Location)

	t.Run("unknown volunteer", func(t *testing.T) {
		_, err := svc.Detail(ctx, asActor(authority), uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSkillCatalogue(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewVolunteerService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	authority := seedUser(t, st, models.RoleAuthority)

	_, err := svc.CreateSkill(ctx, asActor(citizen), &models.SkillSubmission{Name: "swimming"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.CreateSkill(ctx, asActor(authority), &models.SkillSubmission{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateSkill(ctx, asActor(authority), &models.SkillSubmission{Name: "swimming"})
	require.NoError(t, err)

	skills, err := svc.Skills(ctx)
	require.NoError(t, err)
	assert.Len(t, skills, 1)
}
