package store

import (
	"context"
	"math"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/shopspring/decimal"
)

// HomeStats are the derived per-home metrics, computed on every read
type HomeStats struct {
	AverageRating          float64
	ReviewsCount           int64
	TotalDonationsReceived decimal.Decimal
	TotalVisits            int64
}

type ratingRow struct {
	HomeID        uint
	AverageRating float64
	ReviewCount   int64
}

type donationTotalRow struct {
	HomeID       uint
	TotalDonated decimal.Decimal
}

type visitCountRow struct {
	HomeID     uint
	VisitCount int64
}

// Round2 rounds to two decimal places for presentation
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Stats computes derived metrics for the given homes with three grouped
// queries, independent of how many homes are requested. Homes without
// reviews, completed donations or visits get zero values.
func (r *gormHomes) Stats(ctx context.Context, ids ...uint) (map[uint]HomeStats, error) {
	stats := make(map[uint]HomeStats, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}
	for _, id := range ids {
		stats[id] = HomeStats{TotalDonationsReceived: decimal.Zero}
	}

	db := r.db.WithContext(ctx)

	var ratings []ratingRow
	err := db.Model(&models.Review{}).
		Select("home_id, AVG(rating * 1.0) AS average_rating, COUNT(*) AS review_count").
		Where("home_id IN ? AND is_approved = ?", ids, true).
		Group("home_id").
		Scan(&ratings).Error
	if err != nil {
		return nil, translate(err, "Home")
	}
	for _, row := range ratings {
		s := stats[row.HomeID]
		s.AverageRating = Round2(row.AverageRating)
		s.ReviewsCount = row.ReviewCount
		stats[row.HomeID] = s
	}

	var donations []donationTotalRow
	err = db.Model(&models.Donation{}).
		Select("home_id, COALESCE(SUM(amount), 0) AS total_donated").
		Where("home_id IN ? AND status = ?", ids, models.DonationCompleted).
		Group("home_id").
		Scan(&donations).Error
	if err != nil {
		return nil, translate(err, "Home")
	}
	for _, row := range donations {
		s := stats[row.HomeID]
		s.TotalDonationsReceived = row.TotalDonated
		stats[row.HomeID] = s
	}

	var visits []visitCountRow
	err = db.Model(&models.Visit{}).
		Select("home_id, COUNT(*) AS visit_count").
		Where("home_id IN ?", ids).
		Group("home_id").
		Scan(&visits).Error
	if err != nil {
		return nil, translate(err, "Home")
	}
	for _, row := range visits {
		s := stats[row.HomeID]
		s.TotalVisits = row.VisitCount
		stats[row.HomeID] = s
	}

	return stats, nil
}
