package store

import (
	"context"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingSummary describes a home's approved reviews
type RatingSummary struct {
	AverageRating      float64       `json:"average_rating"`
	TotalReviews       int64         `json:"total_reviews"`
	RatingDistribution map[int]int64 `json:"rating_distribution"`
}

// ReviewRepository persists reviews and answers review queries for homes and users
type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	Get(ctx context.Context, id uint) (*models.Review, error)
	Save(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, r *models.Review) error
	Exists(ctx context.Context, userID, homeID uint) (bool, error)
	ListForUser(ctx context.Context, userID uint, page PageRequest) (PageResult[models.Review], error)
	ListApprovedForHome(ctx context.Context, homeID uint, page PageRequest) (PageResult[models.Review], error)
	RecentApprovedForHome(ctx context.Context, homeID uint, limit int) ([]models.Review, error)
	RatingSummary(ctx context.Context, homeID uint) (RatingSummary, error)
}

type gormReviews struct {
	db *gorm.DB
}

func (r *gormReviews) Create(ctx context.Context, rv *models.Review) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error
	if err != nil && isDuplicateKey(err) {
		return types.ConflictError("home_id", "You have already reviewed this home")
	}
	return translate(err, "Review")
}

func (r *gormReviews) Get(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.db.WithContext(ctx).Preload("User").Preload("Home").First(&rv, id).Error; err != nil {
		return nil, translate(err, "Review")
	}
	return &rv, nil
}

func (r *gormReviews) Save(ctx context.Context, rv *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(rv).Error, "Review")
}

func (r *gormReviews) Delete(ctx context.Context, rv *models.Review) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Review{}, rv.ID).Error, "Review")
}

func (r *gormReviews) Exists(ctx context.Context, userID, homeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND home_id = ?", userID, homeID).
		Count(&count).Error
	return count > 0, translate(err, "Review")
}

func (r *gormReviews) ListForUser(ctx context.Context, userID uint, page PageRequest) (PageResult[models.Review], error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("user_id = ?", userID)
	res, err := paginate[models.Review](q, page, "created_at DESC, id DESC", "User", "Home")
	return res, translate(err, "Review")
}

func (r *gormReviews) ListApprovedForHome(ctx context.Context, homeID uint, page PageRequest) (PageResult[models.Review], error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("home_id = ? AND is_approved = ?", homeID, true)
	res, err := paginate[models.Review](q, page, "created_at DESC, id DESC", "User", "Home")
	return res, translate(err, "Review")
}

func (r *gormReviews) RecentApprovedForHome(ctx context.Context, homeID uint, limit int) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Home").
		Where("home_id = ? AND is_approved = ?", homeID, true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err, "Review")
	}
	return reviews, nil
}

type ratingCountRow struct {
	Rating int
	Total  int64
}

// RatingSummary always reports all five rating keys
func (r *gormReviews) RatingSummary(ctx context.Context, homeID uint) (RatingSummary, error) {
	summary := RatingSummary{RatingDistribution: make(map[int]int64, models.MaxRating)}
	for rating := models.MinRating; rating <= models.MaxRating; rating++ {
		summary.RatingDistribution[rating] = 0
	}

	var rows []ratingCountRow
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS total").
		Where("home_id = ? AND is_approved = ?", homeID, true).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return summary, translate(err, "Review")
	}

	var sum int64
	for _, row := range rows {
		if row.Rating < models.MinRating || row.Rating > models.MaxRating {
			continue
		}
		summary.RatingDistribution[row.Rating] = row.Total
		summary.TotalReviews += row.Total
		sum += int64(row.Rating) * row.Total
	}
	if summary.TotalReviews > 0 {
		summary.AverageRating = Round2(float64(sum) / float64(summary.TotalReviews))
	}
	return summary, nil
}
