// Package store owns persistence: one repository per entity over a shared
// GORM handle, plus the aggregate queries that back the analytics endpoints.
package store

import (
	"context"
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/gorm"
)

// Store bundles the entity repositories bound to one *gorm.DB,
// either the connection pool or a single transaction.
type Store struct {
	db        *gorm.DB
	Users     UserRepository
	Homes     HomeRepository
	Donations DonationRepository
	Reviews   ReviewRepository
	Visits    VisitRepository
	Audit     AuditRepository
	Analytics AnalyticsRepository
}

// New binds all repositories to db
func New(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Users:     &gormUsers{db: db},
		Homes:     &gormHomes{db: db},
		Donations: &gormDonations{db: db},
		Reviews:   &gormReviews{db: db},
		Visits:    &gormVisits{db: db},
		Audit:     &gormAudit{db: db},
		Analytics: &gormAnalytics{db: db},
	}
}

// DB exposes the underlying handle for health checks
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against repositories bound to a single transaction.
// Any error returned by fn, or a panic, rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
	return translate(err, "record")
}

// translate maps driver and GORM errors into the service error taxonomy.
// Errors that already carry a kind pass through untouched.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if _, ok := types.AsCustomError(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFoundError(resource)
	}
	if isDuplicateKey(err) {
		return types.ConflictError("", resource+" already exists")
	}
	return types.UnexpectedError(err)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}

// likeEscape must not be a backslash, which MySQL reads as a string escape.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// likePattern builds a case-insensitive substring pattern for
// LOWER(col) LIKE ? ESCAPE '!'. Wildcards in s match literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
