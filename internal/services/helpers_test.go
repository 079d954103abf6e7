package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func seedUser(t *testing.T, st store.Store, role models.Role) *models.User {
	t.Helper()
	id := uuid.New()
	u := &models.User{
		ID:         id,
		Username:   "user-" + id.String()[:8],
		Email:      "user-" + id.String()[:8] + "@example.com",
		FirstName:  "Test",
		LastName:   string(role),
		Role:       role,
		IsActive:   true,
		DateJoined: time.Now(),
	}
	require.NoError(t, st.CreateUser(context.Background(), u))
	if role == models.RoleVolunteer {
		require.NoError(t, st.CreateVolunteerProfile(context.Background(), &models.VolunteerProfile{
			UserID:       u.ID,
			Availability: models.Available,
		}))
	}
	return u
}

func asActor(u *models.User) models.Actor {
	return models.Actor{ID: u.ID, Role: u.Role}
}

func seedAidRequest(t *testing.T, st store.Store, requester *models.User, status models.AidRequestStatus) *models.AidRequest {
	t.Helper()
	r := &models.AidRequest{
		ID:          uuid.New(),
		RequesterID: requester.ID,
		AidType:     models.AidFood,
		Description: "food for a stranded family",
		Location:    "Kota Bharu",
		NumPeople:   4,
		Status:      status,
		RequestedAt: time.Now(),
	}
	require.NoError(t, st.CreateAidRequest(context.Background(), r))
	return r
}
