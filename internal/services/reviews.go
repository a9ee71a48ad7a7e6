package services

import (
	"context"
	"strings"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/metrics"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/datatypes"
)

// ReviewInput is the payload for a new review
type ReviewInput struct {
	HomeID    types.FlexUint `json:"home_id" validate:"required"`
	Rating    int            `json:"rating"`
	Title     string         `json:"title" validate:"max=200"`
	Comment   string         `json:"comment"`
	VisitDate *string        `json:"visit_date"`
	Anonymous bool           `json:"anonymous"`
}

// ReviewUpdateInput is a partial review update
type ReviewUpdateInput struct {
	Rating    types.Optional[int]    `json:"rating"`
	Title     types.Optional[string] `json:"title"`
	Comment   types.Optional[string] `json:"comment"`
	VisitDate types.Optional[string] `json:"visit_date"`
	Anonymous types.Optional[bool]   `json:"anonymous"`
}

// HomeReviews is a page of a home's approved reviews plus the rating summary
type HomeReviews struct {
	Home    *models.ChildrensHome
	Page    store.PageResult[models.Review]
	Summary store.RatingSummary
}

// ReviewService manages reviews; one per user per home
type ReviewService struct {
	store *store.Store
}

func checkRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return types.ValidationError("rating", "Rating must be between 1 and 5")
	}
	return nil
}

func parseOptionalDate(field string, value *string) (*datatypes.Date, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := parseDateField(field, *value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create adds an approved review to an active home
func (s *ReviewService) Create(ctx context.Context, user *models.User, in ReviewInput) (*models.Review, error) {
	if err := types.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	visitDate, err := parseOptionalDate("visit_date", in.VisitDate)
	if err != nil {
		return nil, err
	}

	home, err := s.store.Homes.GetActive(ctx, in.HomeID.Uint())
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:     user.ID,
		User:       user,
		HomeID:     home.ID,
		Home:       home,
		Rating:     in.Rating,
		Title:      strings.TrimSpace(in.Title),
		Comment:    in.Comment,
		VisitDate:  visitDate,
		Anonymous:  in.Anonymous,
		IsApproved: true,
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		exists, err := tx.Reviews.Exists(ctx, user.ID, home.ID)
		if err != nil {
			return err
		}
		if exists {
			return types.ConflictError("home_id", "You have already reviewed this home")
		}
		return tx.Reviews.Create(ctx, review)
	})
	if err != nil {
		return nil, err
	}

	metrics.ReviewsSubmitted.Inc()
	return review, nil
}

// Get loads a review with its reviewer and home
func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, error) {
	return s.store.Reviews.Get(ctx, id)
}

// Update applies an owner's changes
func (s *ReviewService) Update(ctx context.Context, review *models.Review, in ReviewUpdateInput) (*models.Review, error) {
	if in.Rating.Set {
		if err := checkRating(in.Rating.Get()); err != nil {
			return nil, err
		}
	}
	if in.Title.Present() && len(in.Title.Get()) > 200 {
		return nil, types.ValidationError("title", "title must be at most 200 characters")
	}
	var visitDate *datatypes.Date
	if in.VisitDate.Set {
		var err error
		if visitDate, err = parseOptionalDate("visit_date", in.VisitDate.Value); err != nil {
			return nil, err
		}
	}

	if in.Rating.Set {
		review.Rating = in.Rating.Get()
	}
	setString(&review.Title, in.Title)
	setString(&review.Comment, in.Comment)
	if in.VisitDate.Set {
		review.VisitDate = visitDate
	}
	if in.Anonymous.Present() {
		review.Anonymous = in.Anonymous.Get()
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Reviews.Save(ctx, review)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review
func (s *ReviewService) Delete(ctx context.Context, review *models.Review) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Reviews.Delete(ctx, review)
	})
}

// ListMine pages through a user's reviews
func (s *ReviewService) ListMine(ctx context.Context, userID uint, page store.PageRequest) (store.PageResult[models.Review], error) {
	return s.store.Reviews.ListForUser(ctx, userID, page)
}

// ForHome pages through an active home's approved reviews with its rating summary
func (s *ReviewService) ForHome(ctx context.Context, homeID uint, page store.PageRequest) (*HomeReviews, error) {
	home, err := s.store.Homes.GetActive(ctx, homeID)
	if err != nil {
		return nil, err
	}
	res, err := s.store.Reviews.ListApprovedForHome(ctx, home.ID, page)
	if err != nil {
		return nil, err
	}
	summary, err := s.store.Reviews.RatingSummary(ctx, home.ID)
	if err != nil {
		return nil, err
	}
	return &HomeReviews{Home: home, Page: res, Summary: summary}, nil
}
