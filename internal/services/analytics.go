package services

import (
	"context"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
)

const (
	// RollingWindow bounds the "new in the last 30 days" counters
	RollingWindow = 30 * 24 * time.Hour
	RankingLimit  = 10
	// MinReviewsForRating keeps homes with a handful of reviews out of best_rated
	MinReviewsForRating = 3

	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// AnalyticsService serves the admin dashboard
type AnalyticsService struct {
	store *store.Store
	now   func() time.Time
}

// Overview returns platform totals and rolling 30-day counts
func (s *AnalyticsService) Overview(ctx context.Context) (store.Overview, error) {
	return s.store.Analytics.Overview(ctx, s.now().Add(-RollingWindow))
}

// Rankings returns the per-home leaderboards
func (s *AnalyticsService) Rankings(ctx context.Context) (store.HomeRankings, error) {
	return s.store.Analytics.Rankings(ctx, RankingLimit, MinReviewsForRating)
}

// ActivityService exposes the admin audit trail
type ActivityService struct {
	store *store.Store
}

// Recent lists the latest admin mutations, newest first
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	return s.store.Audit.Recent(ctx, limit)
}
