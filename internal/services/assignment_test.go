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

func TestAssignmentLifecycle(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	volunteer := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	request := seedAidRequest(t, st, citizen, models.AidRequestApproved)

	// Authority assigns the volunteer.
	assignment, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
		AidRequestID: request.ID,
		VolunteerID:  volunteer.ID,
		Notes:        "bring a boat",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentAssigned, assignment.Status)
	assert.Equal(t, authority.ID, assignment.AssignedBy)

	// Side effects: request moves to in_progress, volunteer becomes
	// unavailable.
	got, err := st.GetAidRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AidRequestInProgress, got.Status)

	profile, err := st.GetVolunteerProfile(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Unavailable, profile.Availability)

	// Volunteer starts working.
	updated, err := svc.UpdateStatus(ctx, asActor(volunteer), assignment.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentInProgress, updated.Status)
	assert.Nil(t, updated.CompletedAt)

	// Volunteer completes. Request completes and the volunteer is
	// released in the same step.
	updated, err = svc.UpdateStatus(ctx, asActor(volunteer), assignment.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	got, err = st.GetAidRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AidRequestCompleted, got.Status)

	profile, err = st.GetVolunteerProfile(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Available, profile.Availability)
}

func TestAssignRequiresAuthority(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	volunteer := seedUser(t, st, models.RoleVolunteer)
	request := seedAidRequest(t, st, citizen, models.AidRequestApproved)

	_, err := svc.Assign(ctx, asActor(citizen), &models.AssignmentRequest{
		AidRequestID: request.ID,
		VolunteerID:  volunteer.ID,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAssignPreconditions(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	volunteer := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	t.Run("missing aid request", func(t *testing.T) {
		_, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
			AidRequestID: uuid.New(),
			VolunteerID:  volunteer.ID,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("target is not a volunteer", func(t *testing.T) {
		request := seedAidRequest(t, st, citizen, models.AidRequestApproved)
		_, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
			AidRequestID: request.ID,
			VolunteerID:  citizen.ID,
		})
		assert.ErrorIs(t, err, ErrNotAVolunteer)
	})

	t.Run("unknown volunteer", func(t *testing.T) {
		request := seedAidRequest(t, st, citizen, models.AidRequestApproved)
		_, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
			AidRequestID: request.ID,
			VolunteerID:  uuid.New(),
		})
		assert.ErrorIs(t, err, ErrNotAVolunteer)
	})

	t.Run("request not approved", func(t *testing.T) {
		request := seedAidRequest(t, st, citizen, models.AidRequestPending)
		_, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
			AidRequestID: request.ID,
			VolunteerID:  volunteer.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestAssignRejectsDuplicateActiveAssignment(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	first := seedUser(t, st, models.RoleVolunteer)
	second := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	request := seedAidRequest(t, st, citizen, models.AidRequestApproved)

	_, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
		AidRequestID: request.ID,
		VolunteerID:  first.ID,
	})
	require.NoError(t, err)

	// The request is now in_progress, so the second attempt fails on the
	// status check before it even reaches the duplicate check.
	_, err = svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
		AidRequestID: request.ID,
		VolunteerID:  second.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidState)

	// Second volunteer was never touched.
	profile, err := st.GetVolunteerProfile(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Available, profile.Availability)
}

func TestAssignmentStatusTransitions(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	volunteer := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	request := seedAidRequest(t, st, citizen, models.AidRequestApproved)
	assignment, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
		AidRequestID: request.ID,
		VolunteerID:  volunteer.ID,
	})
	require.NoError(t, err)

	t.Run("unknown status value", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, asActor(volunteer), assignment.ID, "paused")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("skipping in_progress is illegal", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, asActor(volunteer), assignment.ID, "completed")
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})

	t.Run("volunteer cannot cancel via status update", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, asActor(volunteer), assignment.ID, "cancelled")
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})

	t.Run("another volunteer cannot touch it", func(t *testing.T) {
		other := seedUser(t, st, models.RoleVolunteer)
		_, err := svc.UpdateStatus(ctx, asActor(other), assignment.ID, "in_progress")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("authority cannot drive the volunteer side", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, asActor(authority), assignment.ID, "in_progress")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestAssignmentCancelReleasesVolunteerAndRequest(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	volunteer := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	request := seedAidRequest(t, st, citizen, models.AidRequestApproved)
	assignment, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
		AidRequestID: request.ID,
		VolunteerID:  volunteer.ID,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, asActor(authority), assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentCancelled, cancelled.Status)

	// The request is assignable again and the volunteer is free.
	got, err := st.GetAidRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AidRequestApproved, got.Status)

	profile, err := st.GetVolunteerProfile(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Available, profile.Availability)

	// A second volunteer can now take it.
	second := seedUser(t, st, models.RoleVolunteer)
	_, err = svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
		AidRequestID: request.ID,
		VolunteerID:  second.ID,
	})
	require.NoError(t, err)
}

func TestCancelTerminalAssignment(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	volunteer := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	request := seedAidRequest(t, st, citizen, models.AidRequestApproved)
	assignment, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
		AidRequestID: request.ID,
		VolunteerID:  volunteer.ID,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, asActor(volunteer), assignment.ID, "in_progress")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, asActor(volunteer), assignment.ID, "completed")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, asActor(authority), assignment.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestListMineOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAssignmentService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	volunteer := seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	for i := 0; i < 3; i++ {
		request := seedAidRequest(t, st, citizen, models.AidRequestApproved)
		a, err := svc.Assign(ctx, asActor(authority), &models.AssignmentRequest{
			AidRequestID: request.ID,
			VolunteerID:  volunteer.ID,
		})
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, asActor(authority), a.ID)
		require.NoError(t, err)
	}

	assignments, err := svc.ListMine(ctx, asActor(volunteer))
	require.NoError(t, err)
	require.Len(t, assignments, 3)
	for i := 1; i < len(assignments); i++ {
		assert.False(t, assignments[i-1].AssignedAt.Before(assignments[i].AssignedAt))
	}

	_, err = svc.ListMine(ctx, asActor(citizen))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
