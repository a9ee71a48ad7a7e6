package models

import (
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VisitStatus is the lifecycle state of a visit
type VisitStatus string

const (
	VisitPending   VisitStatus = "pending"
	VisitConfirmed VisitStatus = "confirmed"
	VisitCompleted VisitStatus = "completed"
	VisitCancelled VisitStatus = "cancelled"
)

// Valid reports whether s is a known visit status
func (s VisitStatus) Valid() bool {
	switch s {
	case VisitPending, VisitConfirmed, VisitCompleted, VisitCancelled:
		return true
	}
	return false
}

// Active reports whether the visit holds one of the home's daily slots
func (s VisitStatus) Active() bool {
	return s == VisitPending || s == VisitConfirmed
}

// Visit represents a scheduled in-person visit by a user to a home
type Visit struct {
	ID               uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           uint            `gorm:"not null;index" json:"user_id"`
	User             *User           `gorm:"foreignKey:UserID" json:"-"`
	HomeID           uint            `gorm:"not null;index:idx_visits_home_date" json:"home_id"`
	Home             *ChildrensHome  `gorm:"foreignKey:HomeID" json:"-"`
	VisitDate        datatypes.Date  `gorm:"not null;index:idx_visits_home_date" json:"visit_date"`
	VisitTime        *datatypes.Time `json:"visit_time"`
	NumberOfVisitors int             `gorm:"not null" json:"number_of_visitors"`
	Purpose          string          `gorm:"type:text" json:"purpose"`
	SpecialRequests  string          `gorm:"type:text" json:"special_requests"`
	Status           VisitStatus     `gorm:"size:20;not null;index" json:"status"`
	ContactPhone     string          `gorm:"size:30" json:"contact_phone"`
	Notes            string          `gorm:"type:text" json:"notes"`
	AdminNotes       string          `gorm:"type:text" json:"admin_notes"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Visit
func (Visit) TableName() string {
	return "visits"
}

// Validate checks the write-time invariants of a visit row.
// The not-in-the-past rule depends on the clock and is checked by the visit service.
func (v *Visit) Validate() error {
	if v.Status == "" {
		v.Status = VisitPending
	}
	switch {
	case v.UserID == 0:
		return types.ValidationError("user_id", "user_id is required")
	case v.HomeID == 0:
		return types.ValidationError("home_id", "home_id is required")
	case time.Time(v.VisitDate).IsZero():
		return types.ValidationError("visit_date", "visit_date is required")
	case v.NumberOfVisitors < 1:
		return types.ValidationError("number_of_visitors", "number_of_visitors must be at least 1")
	case !v.Status.Valid():
		return types.ValidationError("status", "status must be one of: pending, confirmed, completed, cancelled")
	}
	return nil
}

// BeforeSave enforces invariants on create and update
func (v *Visit) BeforeSave(tx *gorm.DB) error {
	return v.Validate()
}
