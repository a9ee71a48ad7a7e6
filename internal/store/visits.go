package store

import (
	"context"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VisitFilter narrows a visit listing. Zero values are ignored.
type VisitFilter struct {
	UserID uint
	HomeID uint
	Status models.VisitStatus
	From   *datatypes.Date // visit_date >= From
	To     *datatypes.Date // visit_date <= To
}

// VisitRepository persists visits
type VisitRepository interface {
	Create(ctx context.Context, v *models.Visit) error
	Get(ctx context.Context, id uint) (*models.Visit, error)
	Save(ctx context.Context, v *models.Visit) error
	List(ctx context.Context, f VisitFilter, page PageRequest) (PageResult[models.Visit], error)
	CountActiveByDate(ctx context.Context, homeID uint, from, to datatypes.Date) (map[string]int, error)
}

type gormVisits struct {
	db *gorm.DB
}

func (r *gormVisits) Create(ctx context.Context, v *models.Visit) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error, "Visit")
}

func (r *gormVisits) Get(ctx context.Context, id uint) (*models.Visit, error) {
	var v models.Visit
	if err := r.db.WithContext(ctx).Preload("User").Preload("Home").First(&v, id).Error; err != nil {
		return nil, translate(err, "Visit")
	}
	return &v, nil
}

func (r *gormVisits) Save(ctx context.Context, v *models.Visit) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error, "Visit")
}

func (r *gormVisits) List(ctx context.Context, f VisitFilter, page PageRequest) (PageResult[models.Visit], error) {
	q := r.db.WithContext(ctx).Model(&models.Visit{})
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
		q = q.Where("visit_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("visit_date <= ?", *f.To)
	}
	res, err := paginate[models.Visit](q, page, "visit_date DESC, id DESC", "User", "Home")
	return res, translate(err, "Visit")
}

// CountActiveByDate counts pending and confirmed visits per day in [from, to],
// keyed by YYYY-MM-DD
func (r *gormVisits) CountActiveByDate(ctx context.Context, homeID uint, from, to datatypes.Date) (map[string]int, error) {
	rows, err := r.db.WithContext(ctx).Model(&models.Visit{}).
		Select("visit_date").
		Where("home_id = ? AND visit_date >= ? AND visit_date <= ?", homeID, from, to).
		Where("status IN ?", []models.VisitStatus{models.VisitPending, models.VisitConfirmed}).
		Rows()
	if err != nil {
		return nil, translate(err, "Visit")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var d datatypes.Date
		if err := rows.Scan(&d); err != nil {
			return nil, translate(err, "Visit")
		}
		counts[time.Time(d).UTC().Format(models.DateLayout)]++
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "Visit")
	}
	return counts, nil
}
