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

func TestAidRequestCreate(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAidRequestService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	volunteer := seedUser(t, st, models.RoleVolunteer)

	submission := &models.AidRequestSubmission{
		AidType:     models.AidRescue,
		Description: "family trapped on rooftop",
		Location:    "Pasir Mas",
		NumPeople:   3,
	}

	request, err := svc.Create(ctx, asActor(citizen), submission)
	require.NoError(t, err)
	assert.Equal(t, models.AidRequestPending, request.Status)
	assert.Equal(t, citizen.ID, request.RequesterID)
	assert.Nil(t, request.ApprovedBy)

	t.Run("only citizens can request aid", func(t *testing.T) {
		_, err := svc.Create(ctx, asActor(volunteer), submission)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("unknown aid type", func(t *testing.T) {
		bad := *submission
		bad.AidType = "helicopter"
		_, err := svc.Create(ctx, asActor(citizen), &bad)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("num_people below one", func(t *testing.T) {
		bad := *submission
		bad.NumPeople = 0
		_, err := svc.Create(ctx, asActor(citizen), &bad)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown shelter reference", func(t *testing.T) {
		bad := *submission
		missing := uuid.New()
		bad.ShelterID = &missing
		_, err := svc.Create(ctx, asActor(citizen), &bad)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAidRequestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAidRequestService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	authority := seedUser(t, st, models.RoleAuthority)

	t.Run("pending to approved records the approver", func(t *testing.T) {
		request := seedAidRequest(t, st, citizen, models.AidRequestPending)
		updated, err := svc.UpdateStatus(ctx, asActor(authority), request.ID, "approved")
		require.NoError(t, err)
		assert.Equal(t, models.AidRequestApproved, updated.Status)
		require.NotNil(t, updated.ApprovedBy)
		assert.Equal(t, authority.ID, *updated.ApprovedBy)
	})

	t.Run("pending to rejected", func(t *testing.T) {
		request := seedAidRequest(t, st, citizen, models.AidRequestPending)
		updated, err := svc.UpdateStatus(ctx, asActor(authority), request.ID, "rejected")
		require.NoError(t, err)
		assert.Equal(t, models.AidRequestRejected, updated.Status)
	})

	t.Run("citizens cannot triage", func(t *testing.T) {
		request := seedAidRequest(t, st, citizen, models.AidRequestPending)
		_, err := svc.UpdateStatus(ctx, asActor(citizen), request.ID, "approved")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("status outside the domain", func(t *testing.T) {
		request := seedAidRequest(t, st, citizen, models.AidRequestPending)
		_, err := svc.UpdateStatus(ctx, asActor(authority), request.ID, "escalated")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("in_progress is not reachable directly", func(t *testing.T) {
		request := seedAidRequest(t, st, citizen, models.AidRequestPending)
		_, err := svc.UpdateStatus(ctx, asActor(authority), request.ID, "in_progress")
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})

	t.Run("approved requests cannot be re-approved", func(t *testing.T) {
		request := seedAidRequest(t, st, citizen, models.AidRequestApproved)
		_, err := svc.UpdateStatus(ctx, asActor(authority), request.ID, "approved")
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, asActor(authority), uuid.New(), "approved")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAidRequestVisibility(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAidRequestService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	other := seedUser(t, st, models.RoleCitizen)
	authority := seedUser(t, st, models.RoleAuthority)

	request := seedAidRequest(t, st, citizen, models.AidRequestPending)

	_, err := svc.Get(ctx, asActor(citizen), request.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, asActor(authority), request.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, asActor(other), request.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAidRequestListMine(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAidRequestService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	other := seedUser(t, st, models.RoleCitizen)
	authority := seedUser(t, st, models.RoleAuthority)

	seedAidRequest(t, st, citizen, models.AidRequestPending)
	seedAidRequest(t, st, citizen, models.AidRequestApproved)
	seedAidRequest(t, st, other, models.AidRequestPending)

	mine, err := svc.ListMine(ctx, asActor(citizen))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.List(ctx, asActor(authority), store.AidRequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := svc.List(ctx, asActor(authority), store.AidRequestFilter{Status: models.AidRequestPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = svc.List(ctx, asActor(citizen), store.AidRequestFilter{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAidRequestDetail(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewAidRequestService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	authority := seedUser(t, st, models.RoleAuthority)

	request := seedAidRequest(t, st, citizen, models.AidRequestPending)

	detail, err := svc.Detail(ctx, asActor(authority), request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, detail.ID)
	assert.Equal(t, citizen.FullName(), detail.RequesterName)

	_, err = svc.Detail(ctx, asActor(citizen), request.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
