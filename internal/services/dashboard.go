package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

const dashboardCacheKey = "dashboard:stats"

// DashboardService serves the authority dashboard counters, cached in
// Redis with a short TTL. The cache is best-effort: a nil or unreachable
// Redis client falls back to counting from the store.
type DashboardService struct {
	store    store.Store
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.SugaredLogger
}

// NewDashboardService creates a new dashboard service. cache may be nil.
func NewDashboardService(st store.Store, cache *redis.Client, cacheTTL time.Duration, logger *zap.SugaredLogger) *DashboardService {
	return &DashboardService{store: st, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Stats returns the dashboard counters. Authority only.
func (s *DashboardService) Stats(ctx context.Context, actor models.Actor) (*models.DashboardStats, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var stats models.DashboardStats
			if json.Unmarshal(cached, &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.store.DashboardCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warnw("Failed to cache dashboard stats", "error", err)
			}
		}
	}
	return stats, nil
}
