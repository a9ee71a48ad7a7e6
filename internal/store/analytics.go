package store

import (
	"context"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Overview is the admin dashboard rollup
type Overview struct {
	TotalUsers          int64           `json:"total_users"`
	TotalHomes          int64           `json:"total_homes"`
	TotalDonations      int64           `json:"total_donations"`
	TotalVisits         int64           `json:"total_visits"`
	TotalReviews        int64           `json:"total_reviews"`
	TotalDonationAmount decimal.Decimal `json:"total_donation_amount"`
	PendingDonations    int64           `json:"pending_donations"`
	NewUsers30Days      int64           `json:"new_users_30_days"`
	NewDonations30Days  int64           `json:"new_donations_30_days"`
	NewVisits30Days     int64           `json:"new_visits_30_days"`
}

// RankedHome is one row of a home ranking. Only the metric relevant to
// the ranking is filled in.
type RankedHome struct {
	HomeID        uint
	Name          string
	Location      string
	VisitCount    int64
	DonationCount int64
	TotalDonated  decimal.Decimal
	AverageRating float64
	ReviewCount   int64
}

// HomeRankings groups the per-home rankings shown to admins
type HomeRankings struct {
	MostVisited []RankedHome
	MostDonated []RankedHome
	MostInNeed  []RankedHome
	BestRated   []RankedHome
}

// AnalyticsRepository answers cross-entity aggregate queries
type AnalyticsRepository interface {
	Overview(ctx context.Context, since time.Time) (Overview, error)
	Rankings(ctx context.Context, limit int, minReviews int) (HomeRankings, error)
}

type gormAnalytics struct {
	db *gorm.DB
}

// query tags every analytics statement so it stands out in database logs
func (r *gormAnalytics) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(hints.Comment("select", "analytics"))
}

// Overview counts everything, with rolling counts for records created at or after since
func (r *gormAnalytics) Overview(ctx context.Context, since time.Time) (Overview, error) {
	o := Overview{TotalDonationAmount: decimal.Zero}
	since = since.UTC()

	counts := []struct {
		dest  *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&o.TotalUsers, &models.User{}, "", nil},
		{&o.TotalHomes, &models.ChildrensHome{}, "is_active = ?", []interface{}{true}},
		{&o.TotalDonations, &models.Donation{}, "", nil},
		{&o.TotalVisits, &models.Visit{}, "", nil},
		{&o.TotalReviews, &models.Review{}, "", nil},
		{&o.PendingDonations, &models.Donation{}, "status = ?", []interface{}{models.DonationPending}},
		{&o.NewUsers30Days, &models.User{}, "date_joined >= ?", []interface{}{since}},
		{&o.NewDonations30Days, &models.Donation{}, "created_at >= ?", []interface{}{since}},
		{&o.NewVisits30Days, &models.Visit{}, "created_at >= ?", []interface{}{since}},
	}
	for _, c := range counts {
		q := r.query(ctx).Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return o, translate(err, "Analytics")
		}
	}

	err := r.query(ctx).Model(&models.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.DonationCompleted).
		Row().Scan(&o.TotalDonationAmount)
	if err != nil {
		return o, translate(err, "Analytics")
	}

	return o, nil
}

// Rankings computes the four home rankings, top limit each, ties broken by home id
func (r *gormAnalytics) Rankings(ctx context.Context, limit int, minReviews int) (HomeRankings, error) {
	var out HomeRankings
	const homeCols = "childrens_homes.id AS home_id, childrens_homes.name AS name, childrens_homes.location AS location"
	const groupCols = "childrens_homes.id, childrens_homes.name, childrens_homes.location"

	err := r.query(ctx).Table("childrens_homes").
		Select(homeCols+", COUNT(visits.id) AS visit_count").
		Joins("JOIN visits ON visits.home_id = childrens_homes.id").
		Group(groupCols).
		Order("visit_count DESC, childrens_homes.id ASC").
		Limit(limit).
		Scan(&out.MostVisited).Error
	if err != nil {
		return out, translate(err, "Analytics")
	}

	err = r.query(ctx).Table("childrens_homes").
		Select(homeCols+", COALESCE(SUM(donations.amount), 0) AS total_donated, COUNT(donations.id) AS donation_count").
		Joins("JOIN donations ON donations.home_id = childrens_homes.id AND donations.status = ?", models.DonationCompleted).
		Group(groupCols).
		Order("total_donated DESC, childrens_homes.id ASC").
		Limit(limit).
		Scan(&out.MostDonated).Error
	if err != nil {
		return out, translate(err, "Analytics")
	}

	// Homes without completed donations join to NULL and coalesce to zero
	err = r.query(ctx).Table("childrens_homes").
		Select(homeCols+", COALESCE(SUM(donations.amount), 0) AS total_donated, COUNT(donations.id) AS donation_count").
		Joins("LEFT JOIN donations ON donations.home_id = childrens_homes.id AND donations.status = ?", models.DonationCompleted).
		Where("childrens_homes.is_active = ?", true).
		Group(groupCols).
		Order("total_donated ASC, childrens_homes.id ASC").
		Limit(limit).
		Scan(&out.MostInNeed).Error
	if err != nil {
		return out, translate(err, "Analytics")
	}

	err = r.query(ctx).Table("childrens_homes").
		Select(homeCols+", AVG(reviews.rating * 1.0) AS average_rating, COUNT(reviews.id) AS review_count").
		Joins("JOIN reviews ON reviews.home_id = childrens_homes.id AND reviews.is_approved = ?", true).
		Group(groupCols).
		Having("COUNT(reviews.id) >= ?", minReviews).
		Order("average_rating DESC, childrens_homes.id ASC").
		Limit(limit).
		Scan(&out.BestRated).Error
	if err != nil {
		return out, translate(err, "Analytics")
	}
	for i := range out.BestRated {
		out.BestRated[i].AverageRating = Round2(out.BestRated[i].AverageRating)
	}

	return out, nil
}
