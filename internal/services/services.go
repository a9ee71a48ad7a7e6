// Package services holds the use cases behind each endpoint: input
// validation, state transitions and the transaction around every write.
package services

import (
	"context"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Options tune the calendar rules shared by the services
type Options struct {
	Location      *time.Location
	RestDay       time.Weekday
	DailyCapacity int
	WindowDays    int
	Now           func() time.Time
}

// DefaultOptions are the rules used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Location:      time.UTC,
		RestDay:       time.Sunday,
		DailyCapacity: 3,
		WindowDays:    30,
		Now:           time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Location == nil {
		o.Location = d.Location
	}
	if o.DailyCapacity <= 0 {
		o.DailyCapacity = d.DailyCapacity
	}
	if o.WindowDays <= 0 {
		o.WindowDays = d.WindowDays
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}

// Today is the current calendar date in the configured time zone
func (o Options) Today() datatypes.Date {
	return models.DateOf(o.Now().In(o.Location))
}

// Services bundles every use case over one store
type Services struct {
	Users     *UserService
	Homes     *HomeService
	Donations *DonationService
	Reviews   *ReviewService
	Visits    *VisitService
	Analytics *AnalyticsService
	Activity  *ActivityService
}

// New wires the services to a store
func New(st *store.Store, hasher auth.PasswordHasher, opts Options) *Services {
	opts = opts.withDefaults()
	return &Services{
		Users:     &UserService{store: st, hasher: hasher},
		Homes:     &HomeService{store: st},
		Donations: &DonationService{store: st},
		Reviews:   &ReviewService{store: st},
		Visits:    &VisitService{store: st, opts: opts},
		Analytics: &AnalyticsService{store: st, now: opts.Now},
		Activity:  &ActivityService{store: st},
	}
}

// recordAudit writes an audit entry inside the caller's transaction.
// before is captured by the caller ahead of the mutation.
func recordAudit(ctx context.Context, tx *store.Store, admin *models.User, action, resourceType string, resourceID uint, before models.JSON, after interface{}) error {
	afterJSON, err := models.NewJSON(after)
	if err != nil {
		return err
	}

	entry := &models.AuditLog{
		AdminUserID:  admin.ID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Before:       before,
		After:        afterJSON,
	}
	if err := tx.Audit.Record(ctx, entry); err != nil {
		return err
	}

	log.Info().
		Uint("admin_id", admin.ID).
		Str("action", action).
		Str("resource", resourceType).
		Uint("resource_id", resourceID).
		Msg("admin mutation")
	return nil
}

// capture serializes a record ahead of a mutation for its audit entry
func capture(v interface{}) models.JSON {
	j, err := models.NewJSON(v)
	if err != nil {
		log.Warn().Err(err).Msg("failed to capture audit snapshot")
		return models.JSON{}
	}
	return j
}
