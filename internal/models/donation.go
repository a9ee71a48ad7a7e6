package models

import (
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DonationType is what kind of support a donation records
type DonationType string

const (
	DonationMonetary DonationType = "monetary"
	DonationGoods    DonationType = "goods"
	DonationServices DonationType = "services"
)

// Valid reports whether t is a known donation type
func (t DonationType) Valid() bool {
	switch t {
	case DonationMonetary, DonationGoods, DonationServices:
		return true
	}
	return false
}

// DonationStatus is the lifecycle state of a donation
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationCancelled DonationStatus = "cancelled"
)

// Valid reports whether s is a known donation status
func (s DonationStatus) Valid() bool {
	switch s {
	case DonationPending, DonationCompleted, DonationCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move from s to next.
// Transitions are forward-only: pending to completed or cancelled.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	return s == DonationPending && (next == DonationCompleted || next == DonationCancelled)
}

// MaxDonationAmount is the largest amount a decimal(10,2) column holds
var MaxDonationAmount = decimal.RequireFromString("99999999.99")

// Donation represents a pledge or record of support from a user to a home
type Donation struct {
	ID                   uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint            `gorm:"not null;index" json:"user_id"`
	User                 *User           `gorm:"foreignKey:UserID" json:"-"`
	HomeID               uint            `gorm:"not null;index" json:"home_id"`
	Home                 *ChildrensHome  `gorm:"foreignKey:HomeID" json:"-"`
	Amount               decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	DonationType         DonationType    `gorm:"size:50;not null" json:"donation_type"`
	Description          string          `gorm:"type:text" json:"description"`
	Status               DonationStatus  `gorm:"size:20;not null;index" json:"status"`
	PaymentMethod        string          `gorm:"size:50" json:"payment_method"`
	TransactionReference string          `gorm:"size:100" json:"transaction_reference"`
	Anonymous            bool            `gorm:"not null" json:"anonymous"`
	MessageToHome        string          `gorm:"type:text" json:"message_to_home"`
	CreatedAt            time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Donation
func (Donation) TableName() string {
	return "donations"
}

// Validate checks the write-time invariants of a donation row
func (d *Donation) Validate() error {
	if d.DonationType == "" {
		d.DonationType = DonationMonetary
	}
	if d.Status == "" {
		d.Status = DonationPending
	}
	switch {
	case d.UserID == 0:
		return types.ValidationError("user_id", "user_id is required")
	case d.HomeID == 0:
		return types.ValidationError("home_id", "home_id is required")
	case !d.Amount.IsPositive():
		return types.ValidationError("amount", "amount must be greater than 0")
	case d.Amount.GreaterThan(MaxDonationAmount):
		return types.ValidationError("amount", "amount is too large")
	case !d.DonationType.Valid():
		return types.ValidationError("donation_type", "donation_type must be one of: monetary, goods, services")
	case !d.Status.Valid():
		return types.ValidationError("status", "status must be one of: pending, completed, cancelled")
	}
	return nil
}

// BeforeSave enforces invariants on create and update
func (d *Donation) BeforeSave(tx *gorm.DB) error {
	return d.Validate()
}

// DonorName is the display name shown for the donor
func (d *Donation) DonorName() string {
	if d.Anonymous {
		return "Anonymous"
	}
	if d.User == nil {
		return ""
	}
	return d.User.FullName()
}
