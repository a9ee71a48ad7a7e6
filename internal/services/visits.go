package services

import (
	"context"
	"strings"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/metrics"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/datatypes"
)

// VisitInput is the payload for scheduling a visit
type VisitInput struct {
	HomeID           types.FlexUint `json:"home_id" validate:"required"`
	VisitDate        string         `json:"visit_date" validate:"required"`
	VisitTime        *string        `json:"visit_time"`
	NumberOfVisitors *int           `json:"number_of_visitors"`
	Purpose          string         `json:"purpose"`
	SpecialRequests  string         `json:"special_requests"`
	ContactPhone     string         `json:"contact_phone" validate:"max=30"`
	Notes            string         `json:"notes"`
}

// VisitUpdateInput is an owner's partial update of a pending visit
type VisitUpdateInput struct {
	VisitDate        types.Optional[string] `json:"visit_date"`
	VisitTime        types.Optional[string] `json:"visit_time"`
	NumberOfVisitors types.Optional[int]    `json:"number_of_visitors"`
	Purpose          types.Optional[string] `json:"purpose"`
	SpecialRequests  types.Optional[string] `json:"special_requests"`
	ContactPhone     types.Optional[string] `json:"contact_phone"`
	Notes            types.Optional[string] `json:"notes"`
}

// VisitStatusInput is an admin status change
type VisitStatusInput struct {
	Status     models.VisitStatus     `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	AdminNotes types.Optional[string] `json:"admin_notes"`
}

// Availability is the bookable calendar of one home
type Availability struct {
	HomeID         uint            `json:"home_id"`
	HomeName       string          `json:"home_name"`
	AvailableDates []AvailableDate `json:"available_dates"`
}

// VisitService schedules visits and enforces their lifecycle
type VisitService struct {
	store *store.Store
	opts  Options
}

// Policy is the availability policy in effect
func (s *VisitService) Policy() AvailabilityPolicy {
	return AvailabilityPolicy{
		RestDay:       s.opts.RestDay,
		DailyCapacity: s.opts.DailyCapacity,
		WindowDays:    s.opts.WindowDays,
	}
}

// Today is the current date in the configured time zone
func (s *VisitService) Today() datatypes.Date {
	return s.opts.Today()
}

// parseVisitDate rejects malformed dates and dates before today
func (s *VisitService) parseVisitDate(value string) (datatypes.Date, error) {
	d, err := parseDateField("visit_date", value)
	if err != nil {
		return d, err
	}
	if time.Time(d).Before(time.Time(s.Today())) {
		return d, types.ValidationError("visit_date", "Visit date cannot be in the past")
	}
	return d, nil
}

func parseVisitTime(value string) (*datatypes.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := models.ParseTimeOfDay(value)
	if err != nil {
		return nil, types.ValidationError("visit_time", "Invalid visit_time format. Use HH:MM")
	}
	return &t, nil
}

func checkVisitors(n int) error {
	if n < 1 {
		return types.ValidationError("number_of_visitors", "Number of visitors must be at least 1")
	}
	return nil
}

// Create schedules a pending visit to an active home
func (s *VisitService) Create(ctx context.Context, user *models.User, in VisitInput) (*models.Visit, error) {
	if err := types.ValidateStruct(&in); err != nil {
		return nil, err
	}
	visitDate, err := s.parseVisitDate(in.VisitDate)
	if err != nil {
		return nil, err
	}
	var visitTime *datatypes.Time
	if in.VisitTime != nil {
		if visitTime, err = parseVisitTime(*in.VisitTime); err != nil {
			return nil, err
		}
	}
	visitors := 1
	if in.NumberOfVisitors != nil {
		visitors = *in.NumberOfVisitors
	}
	if err := checkVisitors(visitors); err != nil {
		return nil, err
	}

	home, err := s.store.Homes.GetActive(ctx, in.HomeID.Uint())
	if err != nil {
		return nil, err
	}

	visit := &models.Visit{
		UserID:           user.ID,
		User:             user,
		HomeID:           home.ID,
		Home:             home,
		VisitDate:        visitDate,
		VisitTime:        visitTime,
		NumberOfVisitors: visitors,
		Purpose:          in.Purpose,
		SpecialRequests:  in.SpecialRequests,
		ContactPhone:     strings.TrimSpace(in.ContactPhone),
		Notes:            in.Notes,
		Status:           models.VisitPending,
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Visits.Create(ctx, visit)
	})
	if err != nil {
		return nil, err
	}

	metrics.VisitsScheduled.Inc()
	return visit, nil
}

// Get loads a visit with its visitor and home
func (s *VisitService) Get(ctx context.Context, id uint) (*models.Visit, error) {
	return s.store.Visits.Get(ctx, id)
}

// ListMine pages through a user's visits
func (s *VisitService) ListMine(ctx context.Context, userID uint, f store.VisitFilter, page store.PageRequest) (store.PageResult[models.Visit], error) {
	f.UserID = userID
	return s.ListAll(ctx, f, page)
}

// ListAll pages through visits for the admin console
func (s *VisitService) ListAll(ctx context.Context, f store.VisitFilter, page store.PageRequest) (store.PageResult[models.Visit], error) {
	if f.Status != "" && !f.Status.Valid() {
		return store.PageResult[models.Visit]{}, types.ValidationError("status", "status must be one of: pending, confirmed, completed, cancelled")
	}
	return s.store.Visits.List(ctx, f, page)
}

// Update changes an owner's pending visit
func (s *VisitService) Update(ctx context.Context, visit *models.Visit, in VisitUpdateInput) (*models.Visit, error) {
	if visit.Status != models.VisitPending {
		return nil, types.ValidationError("status", "Only pending visits can be updated")
	}

	if in.VisitDate.Set {
		d, err := s.parseVisitDate(in.VisitDate.Get())
		if err != nil {
			return nil, err
		}
		visit.VisitDate = d
	}
	if in.VisitTime.Set {
		t, err := parseVisitTime(in.VisitTime.Get())
		if err != nil {
			return nil, err
		}
		visit.VisitTime = t
	}
	if in.NumberOfVisitors.Set {
		if err := checkVisitors(in.NumberOfVisitors.Get()); err != nil {
			return nil, err
		}
		visit.NumberOfVisitors = in.NumberOfVisitors.Get()
	}
	setString(&visit.Purpose, in.Purpose)
	setString(&visit.SpecialRequests, in.SpecialRequests)
	setString(&visit.ContactPhone, in.ContactPhone)
	setString(&visit.Notes, in.Notes)

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Visits.Save(ctx, visit)
	})
	if err != nil {
		return nil, err
	}
	return visit, nil
}

// Cancel cancels an owner's pending or confirmed visit
func (s *VisitService) Cancel(ctx context.Context, visit *models.Visit) (*models.Visit, error) {
	switch visit.Status {
	case models.VisitCancelled:
		return nil, types.ValidationError("status", "Visit is already cancelled")
	case models.VisitCompleted:
		return nil, types.ValidationError("status", "Cannot cancel a completed visit")
	}

	visit.Status = models.VisitCancelled
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Visits.Save(ctx, visit)
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusChanges.WithLabelValues("visit", string(visit.Status)).Inc()
	return visit, nil
}

// AdminUpdateStatus sets any status and optionally the admin notes
func (s *VisitService) AdminUpdateStatus(ctx context.Context, admin *models.User, id uint, in VisitStatusInput) (*models.Visit, error) {
	if err := types.ValidateStruct(&in); err != nil {
		return nil, err
	}

	var visit *models.Visit
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		if visit, err = tx.Visits.Get(ctx, id); err != nil {
			return err
		}
		before := capture(visit)
		visit.Status = in.Status
		setString(&visit.AdminNotes, in.AdminNotes)
		if err := tx.Visits.Save(ctx, visit); err != nil {
			return err
		}
		return recordAudit(ctx, tx, admin, models.AuditStatus, "visit", visit.ID, before, visit)
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusChanges.WithLabelValues("visit", string(visit.Status)).Inc()
	return visit, nil
}

// AvailableDates reports the bookable days of an active home from today on
func (s *VisitService) AvailableDates(ctx context.Context, homeID uint, today datatypes.Date) (*Availability, error) {
	home, err := s.store.Homes.GetActive(ctx, homeID)
	if err != nil {
		return nil, err
	}

	policy := s.Policy()
	end := models.DateOf(time.Time(today).AddDate(0, 0, policy.WindowDays))
	booked, err := s.store.Visits.CountActiveByDate(ctx, home.ID, today, end)
	if err != nil {
		return nil, err
	}

	return &Availability{
		HomeID:         home.ID,
		HomeName:       home.Name,
		AvailableDates: ComputeAvailability(today, booked, policy),
	}, nil
}
