package postgres

import (
	"context"
	"fmt"

	"github.com/drims/disaster-server/internal/models"
)

func (s *Store) DashboardCounts(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM disaster_reports),
			(SELECT COUNT(*) FROM disaster_reports WHERE is_active),
			(SELECT COUNT(*) FROM aid_requests),
			(SELECT COUNT(*) FROM aid_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM volunteer_profiles),
			(SELECT COUNT(*) FROM volunteer_profiles WHERE availability = 'available'),
			(SELECT COUNT(*) FROM shelters WHERE is_active),
			(SELECT COUNT(*) FROM shelters WHERE is_active AND current_occupancy < capacity)
	`).Scan(&stats.TotalReports, &stats.ActiveReports, &stats.TotalAidRequests,
		&stats.PendingAidRequests, &stats.TotalVolunteers, &stats.AvailableVolunteers,
		&stats.TotalShelters, &stats.AvailableShelters)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &stats, nil
}
