package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

func TestReportCreateStartsInactive(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewReportService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	authority := seedUser(t, st, models.RoleAuthority)

	report, err := svc.Create(ctx, asActor(citizen), &models.ReportSubmission{
		DisasterType: models.DisasterFlood,
		Location:     "Kuala Krai",
		Severity:     3,
		Description:  "river burst its banks",
	})
	require.NoError(t, err)
	assert.False(t, report.IsActive)

	t.Run("authorities cannot file reports", func(t *testing.T) {
		_, err := svc.Create(ctx, asActor(authority), &models.ReportSubmission{
			DisasterType: models.DisasterFlood,
			Location:     "Somewhere",
			Severity:     2,
			Description:  "test",
		})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("severity out of range", func(t *testing.T) {
		_, err := svc.Create(ctx, asActor(citizen), &models.ReportSubmission{
			DisasterType: models.DisasterHaze,
			Location:     "Somewhere",
			Severity:     5,
			Description:  "test",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown disaster type", func(t *testing.T) {
		_, err := svc.Create(ctx, asActor(citizen), &models.ReportSubmission{
			DisasterType: "meteor",
			Location:     "Somewhere",
			Severity:     1,
			Description:  "test",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestReportVisibility(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewReportService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	authority := seedUser(t, st, models.RoleAuthority)

	report, err := svc.Create(ctx, asActor(citizen), &models.ReportSubmission{
		DisasterType: models.DisasterLandslide,
		Location:     "Gua Musang",
		Severity:     4,
		Description:  "hillside collapsed onto the road",
	})
	require.NoError(t, err)

	// Inactive reports are hidden from non-authorities.
	_, err = svc.Get(ctx, asActor(citizen), report.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(ctx, asActor(authority), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)

	// Non-authority listings force the active filter.
	visible, err := svc.List(ctx, asActor(citizen), store.ReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.List(ctx, asActor(authority), store.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Activation makes it public.
	_, err = svc.ToggleActive(ctx, asActor(authority), report.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, asActor(citizen), report.ID)
	assert.NoError(t, err)

	visible, err = svc.List(ctx, asActor(citizen), store.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	t.Run("citizens cannot toggle", func(t *testing.T) {
		_, err := svc.ToggleActive(ctx, asActor(citizen), report.ID)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestReportListFilters(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewReportService(st, testLogger())

	citizen := seedUser(t, st, models.RoleCitizen)
	authority := seedUser(t, st, models.RoleAuthority)

	mk := func(dt models.DisasterType, severity int, location string) {
		_, err := svc.Create(ctx, asActor(citizen), &models.ReportSubmission{
			DisasterType: dt,
			Location:     location,
			Severity:     severity,
			Description:  "test",
		})
		require.NoError(t, err)
	}
	mk(models.DisasterFlood, 4, "Kota Bharu")
	mk(models.DisasterFlood, 2, "Tumpat")
	mk(models.DisasterHaze, 1, "Kota Bharu")

	floods, err := svc.List(ctx, asActor(authority), store.ReportFilter{DisasterType: models.DisasterFlood})
	require.NoError(t, err)
	assert.Len(t, floods, 2)

	kb, err := svc.List(ctx, asActor(authority), store.ReportFilter{Location: "kota"})
	require.NoError(t, err)
	assert.Len(t, kb, 2)

	bySeverity, err := svc.List(ctx, asActor(authority), store.ReportFilter{SortBy: store.SortSeverityDesc})
	require.NoError(t, err)
	require.Len(t, bySeverity, 3)
	assert.Equal(t, 4, bySeverity[0].Severity)
	assert.Equal(t, 1, bySeverity[2].Severity)
}
