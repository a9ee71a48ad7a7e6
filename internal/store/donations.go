package store

import (
	"context"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DonationFilter narrows a donation listing. Zero values are ignored.
type DonationFilter struct {
	UserID uint
	HomeID uint
	Status models.DonationStatus
	From   *time.Time // created_at >= From
	To     *time.Time // created_at < To
}

// DonationStats summarizes one donor's giving
type DonationStats struct {
	TotalDonations     int64           `json:"total_donations"`
	CompletedDonations int64           `json:"completed_donations"`
	TotalAmountDonated decimal.Decimal `json:"total_amount_donated"`
	HomesSupported     int64           `json:"homes_supported"`
}

// DonationRepository persists donations
type DonationRepository interface {
	Create(ctx context.Context, d *models.Donation) error
	Get(ctx context.Context, id uint) (*models.Donation, error)
	Save(ctx context.Context, d *models.Donation) error
	List(ctx context.Context, f DonationFilter, page PageRequest) (PageResult[models.Donation], error)
	UserStats(ctx context.Context, userID uint) (DonationStats, error)
}

type gormDonations struct {
	db *gorm.DB
}

func (r *gormDonations) Create(ctx context.Context, d *models.Donation) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error, "Donation")
}

// Get loads a donation with its donor and home
func (r *gormDonations) Get(ctx context.Context, id uint) (*models.Donation, error) {
	var d models.Donation
	err := r.db.WithContext(ctx).Preload("User").Preload("Home").First(&d, id).Error
	if err != nil {
		return nil, translate(err, "Donation")
	}
	return &d, nil
}

func (r *gormDonations) Save(ctx context.Context, d *models.Donation) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(d).Error, "Donation")
}

func (r *gormDonations) List(ctx context.Context, f DonationFilter, page PageRequest) (PageResult[models.Donation], error) {
	q := r.db.WithContext(ctx).Model(&models.Donation{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.HomeID != 0 {
		q = q.Where("home_id = ?", f.HomeID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.UTC())
	}
	res, err := paginate[models.Donation](q, page, "created_at DESC, id DESC", "User", "Home")
	return res, translate(err, "Donation")
}

func (r *gormDonations) UserStats(ctx context.Context, userID uint) (DonationStats, error) {
	stats := DonationStats{TotalAmountDonated: decimal.Zero}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Donation{}).Where("user_id = ?", userID).Count(&stats.TotalDonations).Error; err != nil {
		return stats, translate(err, "Donation")
	}

	completed := db.Model(&models.Donation{}).Where("user_id = ? AND status = ?", userID, models.DonationCompleted)
	if err := completed.Session(&gorm.Session{}).Count(&stats.CompletedDonations).Error; err != nil {
		return stats, translate(err, "Donation")
	}

	err := db.Model(&models.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND status = ?", userID, models.DonationCompleted).
		Row().Scan(&stats.TotalAmountDonated)
	if err != nil {
		return stats, translate(err, "Donation")
	}

	err = db.Model(&models.Donation{}).
		Select("COUNT(DISTINCT home_id)").
		Where("user_id = ? AND status = ?", userID, models.DonationCompleted).
		Row().Scan(&stats.HomesSupported)
	if err != nil {
		return stats, translate(err, "Donation")
	}

	return stats, nil
}
