package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewDashboardService(st, nil, 30*time.Second, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	seedUser(t, st, models.RoleVolunteer)
	authority := seedUser(t, st, models.RoleAuthority)

	seedAidRequest(t, st, citizen, models.AidRequestPending)
	seedAidRequest(t, st, citizen, models.AidRequestApproved)

	reportSvc := NewReportService(st, testLogger())
	report, err := reportSvc.Create(ctx, asActor(citizen), &models.ReportSubmission{
		DisasterType: models.DisasterFlood,
		Location:     "Kota Bharu",
		Severity:     3,
		Description:  "flooding",
	})
	require.NoError(t, err)
	_, err = reportSvc.ToggleActive(ctx, asActor(authority), report.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, asActor(authority))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalReports)
	assert.Equal(t, 1, stats.ActiveReports)
	assert.Equal(t, 2, stats.TotalAidRequests)
	assert.Equal(t, 1, stats.PendingAidRequests)
	assert.Equal(t, 1, stats.TotalVolunteers)
	assert.Equal(t, 1, stats.AvailableVolunteers)

	_, err = svc.Stats(ctx, asActor(citizen))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
