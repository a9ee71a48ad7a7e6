package store

import (
	"context"
	"strings"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserFilter narrows an admin user listing
type UserFilter struct {
	Search string // username, email, first or last name
	Role   models.Role
	Active *bool
}

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id uint) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	CountAdmins(ctx context.Context) (int64, error)
	List(ctx context.Context, f UserFilter, page PageRequest) (PageResult[models.User], error)
}

type gormUsers struct {
	db *gorm.DB
}

func (r *gormUsers) Create(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error
	return translateUserConflict(err)
}

func (r *gormUsers) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

// FindByLogin matches either username or email, case-insensitively
func (r *gormUsers) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var u models.User
	err := r.db.WithContext(ctx).
		Where("(LOWER(username) = ? OR LOWER(email) = ?)", login, login).
		First(&u).Error
	if err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

func (r *gormUsers) Save(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error
	return translateUserConflict(err)
}

func (r *gormUsers) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.taken(ctx, "username", username, excludeID)
}

func (r *gormUsers) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

func (r *gormUsers) taken(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER("+column+") = ?", strings.ToLower(strings.TrimSpace(value)))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err, "User")
	}
	return count > 0, nil
}

func (r *gormUsers) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error
	return count, translate(err, "User")
}

func (r *gormUsers) List(ctx context.Context, f UserFilter, page PageRequest) (PageResult[models.User], error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(username) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!')", p, p, p, p)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	res, err := paginate[models.User](q, page, "date_joined DESC, id DESC")
	return res, translate(err, "User")
}

// translateUserConflict names the offending column when the unique index fires
func translateUserConflict(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		if strings.Contains(strings.ToLower(err.Error()), "email") {
			return types.ConflictError("email", "Email already exists")
		}
		return types.ConflictError("username", "Username already exists")
	}
	return translate(err, "User")
}
