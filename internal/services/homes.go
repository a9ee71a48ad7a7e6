package services

import (
	"context"
	"strings"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/datatypes"
)

// RecentReviewsLimit is how many reviews a home detail shows
const RecentReviewsLimit = 5

// HomeInput is the payload for creating a home
type HomeInput struct {
	Name                 string  `json:"name" validate:"required,max=200"`
	Description          string  `json:"description"`
	Location             string  `json:"location" validate:"required,max=200"`
	Address              string  `json:"address" validate:"max=255"`
	PhoneNumber          string  `json:"phone_number" validate:"max=30"`
	Email                string  `json:"email" validate:"omitempty,email,max=120"`
	Capacity             *int    `json:"capacity" validate:"omitempty,gte=0"`
	CurrentChildrenCount *int    `json:"current_children_count" validate:"omitempty,gte=0"`
	EstablishedDate      *string `json:"established_date"`
	ContactPerson        string  `json:"contact_person" validate:"max=100"`
	Website              string  `json:"website" validate:"max=255"`
	ImageURL             string  `json:"image_url" validate:"max=255"`
	NeedsDescription     string  `json:"needs_description"`
	IsActive             *bool   `json:"is_active"`
}

// HomeUpdateInput is a partial update. Absent fields are left alone.
type HomeUpdateInput struct {
	Name                 types.Optional[string] `json:"name"`
	Description          types.Optional[string] `json:"description"`
	Location             types.Optional[string] `json:"location"`
	Address              types.Optional[string] `json:"address"`
	PhoneNumber          types.Optional[string] `json:"phone_number"`
	Email                types.Optional[string] `json:"email"`
	Capacity             types.Optional[int]    `json:"capacity"`
	CurrentChildrenCount types.Optional[int]    `json:"current_children_count"`
	EstablishedDate      types.Optional[string] `json:"established_date"`
	ContactPerson        types.Optional[string] `json:"contact_person"`
	Website              types.Optional[string] `json:"website"`
	ImageURL             types.Optional[string] `json:"image_url"`
	NeedsDescription     types.Optional[string] `json:"needs_description"`
	IsActive             types.Optional[bool]   `json:"is_active"`
}

// HomeDetail is a single home with its derived metrics and latest reviews
type HomeDetail struct {
	Home          *models.ChildrensHome
	Stats         store.HomeStats
	RecentReviews []models.Review
}

// HomeService serves the public directory and the admin home console
type HomeService struct {
	store *store.Store
}

// List pages through active homes, with stats for every home on the page
func (s *HomeService) List(ctx context.Context, f store.HomeFilter, page store.PageRequest) (store.PageResult[models.ChildrensHome], map[uint]store.HomeStats, error) {
	active := true
	f.Active = &active
	f.SearchIn = store.SearchNameDescription
	return s.list(ctx, f, page)
}

// ListAdmin pages through all homes, optionally filtered by is_active
func (s *HomeService) ListAdmin(ctx context.Context, f store.HomeFilter, page store.PageRequest) (store.PageResult[models.ChildrensHome], map[uint]store.HomeStats, error) {
	f.SearchIn = store.SearchNameLocation
	return s.list(ctx, f, page)
}

func (s *HomeService) list(ctx context.Context, f store.HomeFilter, page store.PageRequest) (store.PageResult[models.ChildrensHome], map[uint]store.HomeStats, error) {
	res, err := s.store.Homes.List(ctx, f, page)
	if err != nil {
		return res, nil, err
	}
	stats, err := s.store.Homes.Stats(ctx, homeIDs(res.Items)...)
	if err != nil {
		return res, nil, err
	}
	return res, stats, nil
}

// Get returns an active home with stats and its most recent approved reviews
func (s *HomeService) Get(ctx context.Context, id uint) (*HomeDetail, error) {
	home, err := s.store.Homes.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.Homes.Stats(ctx, home.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.Reviews.RecentApprovedForHome(ctx, home.ID, RecentReviewsLimit)
	if err != nil {
		return nil, err
	}
	return &HomeDetail{Home: home, Stats: stats[home.ID], RecentReviews: reviews}, nil
}

// Search finds active homes by free text and/or location; one of them is required
func (s *HomeService) Search(ctx context.Context, query, location string) ([]models.ChildrensHome, map[uint]store.HomeStats, error) {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if query == "" && location == "" {
		return nil, nil, types.ValidationError("q", "Search query or location is required")
	}

	homes, err := s.store.Homes.Search(ctx, query, location)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.store.Homes.Stats(ctx, homeIDs(homes)...)
	if err != nil {
		return nil, nil, err
	}
	return homes, stats, nil
}

// Stats returns the derived metrics of one home, active or not
func (s *HomeService) Stats(ctx context.Context, id uint) (store.HomeStats, error) {
	stats, err := s.store.Homes.Stats(ctx, id)
	if err != nil {
		return store.HomeStats{}, err
	}
	return stats[id], nil
}

// Locations lists the distinct locations of active homes
func (s *HomeService) Locations(ctx context.Context) ([]string, error) {
	return s.store.Homes.Locations(ctx)
}

// Create adds a home and audits it
func (s *HomeService) Create(ctx context.Context, admin *models.User, in HomeInput) (*models.ChildrensHome, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if err := types.ValidateStruct(&in); err != nil {
		return nil, err
	}

	home := &models.ChildrensHome{
		Name:             in.Name,
		Description:      in.Description,
		Location:         in.Location,
		Address:          in.Address,
		PhoneNumber:      in.PhoneNumber,
		Email:            in.Email,
		Capacity:         in.Capacity,
		ContactPerson:    in.ContactPerson,
		Website:          in.Website,
		ImageURL:         in.ImageURL,
		NeedsDescription: in.NeedsDescription,
		IsActive:         true,
	}
	if in.CurrentChildrenCount != nil {
		home.CurrentChildrenCount = *in.CurrentChildrenCount
	}
	if in.IsActive != nil {
		home.IsActive = *in.IsActive
	}
	if in.EstablishedDate != nil && *in.EstablishedDate != "" {
		d, err := parseDateField("established_date", *in.EstablishedDate)
		if err != nil {
			return nil, err
		}
		home.EstablishedDate = &d
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Homes.Create(ctx, home); err != nil {
			return err
		}
		return recordAudit(ctx, tx, admin, models.AuditCreate, "home", home.ID, models.JSON{}, home)
	})
	if err != nil {
		return nil, err
	}
	return home, nil
}

// Update applies a partial update to any home, active or not
func (s *HomeService) Update(ctx context.Context, admin *models.User, id uint, in HomeUpdateInput) (*models.ChildrensHome, error) {
	if in.Email.Present() && in.Email.Get() != "" {
		if err := types.Validator().Var(in.Email.Get(), "email,max=120"); err != nil {
			return nil, types.ValidationError("email", "email must be a valid email address")
		}
	}
	var established *datatypes.Date
	if in.EstablishedDate.Present() && in.EstablishedDate.Get() != "" {
		d, err := parseDateField("established_date", in.EstablishedDate.Get())
		if err != nil {
			return nil, err
		}
		established = &d
	}

	var home *models.ChildrensHome
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		if home, err = tx.Homes.Get(ctx, id); err != nil {
			return err
		}
		before := capture(home)

		setString(&home.Name, in.Name)
		setString(&home.Description, in.Description)
		setString(&home.Location, in.Location)
		setString(&home.Address, in.Address)
		setString(&home.PhoneNumber, in.PhoneNumber)
		setString(&home.Email, in.Email)
		setString(&home.ContactPerson, in.ContactPerson)
		setString(&home.Website, in.Website)
		setString(&home.ImageURL, in.ImageURL)
		setString(&home.NeedsDescription, in.NeedsDescription)
		if in.Capacity.Set {
			home.Capacity = in.Capacity.Value
		}
		if in.CurrentChildrenCount.Set {
			home.CurrentChildrenCount = in.CurrentChildrenCount.Get()
		}
		if in.EstablishedDate.Set {
			home.EstablishedDate = established
		}
		if in.IsActive.Present() {
			home.IsActive = in.IsActive.Get()
		}

		if err := tx.Homes.Save(ctx, home); err != nil {
			return err
		}
		return recordAudit(ctx, tx, admin, models.AuditUpdate, "home", home.ID, before, home)
	})
	if err != nil {
		return nil, err
	}
	return home, nil
}

// Deactivate soft-deletes a home. Its donations, reviews and visits stay.
func (s *HomeService) Deactivate(ctx context.Context, admin *models.User, id uint) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		home, err := tx.Homes.Get(ctx, id)
		if err != nil {
			return err
		}
		before := capture(home)
		home.IsActive = false
		if err := tx.Homes.Save(ctx, home); err != nil {
			return err
		}
		return recordAudit(ctx, tx, admin, models.AuditDeactivate, "home", home.ID, before, home)
	})
}

func homeIDs(homes []models.ChildrensHome) []uint {
	ids := make([]uint, len(homes))
	for i := range homes {
		ids[i] = homes[i].ID
	}
	return ids
}

// setString assigns a present optional; an explicit null clears the field
func setString(dst *string, v types.Optional[string]) {
	if v.Set {
		*dst = v.Get()
	}
}

func parseDateField(field, value string) (datatypes.Date, error) {
	d, err := models.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return d, types.ValidationError(field, "Invalid "+field+" format. Use YYYY-MM-DD")
	}
	return d, nil
}
