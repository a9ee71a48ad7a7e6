package store

import (
	"context"
	"strings"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HomeSearchColumns are the columns a free-text home search may cover
const (
	SearchNameDescription = "name_description"
	SearchNameLocation    = "name_location"
)

// HomeFilter narrows a home listing
type HomeFilter struct {
	Search   string
	SearchIn string // SearchNameDescription (default) or SearchNameLocation
	Location string // case-insensitive exact match
	Active   *bool
}

// HomeRepository persists homes and answers home-scoped queries
type HomeRepository interface {
	Create(ctx context.Context, h *models.ChildrensHome) error
	Get(ctx context.Context, id uint) (*models.ChildrensHome, error)
	GetActive(ctx context.Context, id uint) (*models.ChildrensHome, error)
	Save(ctx context.Context, h *models.ChildrensHome) error
	List(ctx context.Context, f HomeFilter, page PageRequest) (PageResult[models.ChildrensHome], error)
	Search(ctx context.Context, query, location string) ([]models.ChildrensHome, error)
	Locations(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, ids ...uint) (map[uint]HomeStats, error)
}

type gormHomes struct {
	db *gorm.DB
}

func (r *gormHomes) Create(ctx context.Context, h *models.ChildrensHome) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(h).Error, "Home")
}

func (r *gormHomes) Get(ctx context.Context, id uint) (*models.ChildrensHome, error) {
	var h models.ChildrensHome
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, translate(err, "Home")
	}
	return &h, nil
}

// GetActive treats a deactivated home as absent
func (r *gormHomes) GetActive(ctx context.Context, id uint) (*models.ChildrensHome, error) {
	h, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !h.IsActive {
		return nil, types.NotFoundError("Home")
	}
	return h, nil
}

func (r *gormHomes) Save(ctx context.Context, h *models.ChildrensHome) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(h).Error, "Home")
}

func (r *gormHomes) List(ctx context.Context, f HomeFilter, page PageRequest) (PageResult[models.ChildrensHome], error) {
	q := r.db.WithContext(ctx).Model(&models.ChildrensHome{})
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		if f.SearchIn == SearchNameLocation {
			q = q.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(location) LIKE ? ESCAPE '!')", p, p)
		} else {
			q = q.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", p, p)
		}
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) = ?", strings.ToLower(strings.TrimSpace(f.Location)))
	}
	res, err := paginate[models.ChildrensHome](q, page, "created_at DESC, id DESC")
	return res, translate(err, "Home")
}

// Search matches active homes by text over name, description and needs,
// and by a location substring. Empty terms are ignored.
func (r *gormHomes) Search(ctx context.Context, query, location string) ([]models.ChildrensHome, error) {
	q := r.db.WithContext(ctx).Model(&models.ChildrensHome{}).Where("is_active = ?", true)
	if strings.TrimSpace(query) != "" {
		p := likePattern(query)
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(needs_description) LIKE ? ESCAPE '!')", p, p, p)
	}
	if strings.TrimSpace(location) != "" {
		q = q.Where("LOWER(location) LIKE ? ESCAPE '!'", likePattern(location))
	}

	homes := []models.ChildrensHome{}
	if err := q.Order("name ASC, id ASC").Find(&homes).Error; err != nil {
		return nil, translate(err, "Home")
	}
	return homes, nil
}

// Locations lists the distinct locations of active homes, sorted
func (r *gormHomes) Locations(ctx context.Context) ([]string, error) {
	locations := []string{}
	err := r.db.WithContext(ctx).Model(&models.ChildrensHome{}).
		Where("is_active = ?", true).
		Distinct("location").
		Order("location ASC").
		Pluck("location", &locations).Error
	if err != nil {
		return nil, translate(err, "Home")
	}
	return locations, nil
}
