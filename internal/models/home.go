package models

import (
	"strings"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChildrensHome represents a children's home or orphanage profile.
// Homes are never physically removed; deactivation clears IsActive.
type ChildrensHome struct {
	ID                   uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                 string          `gorm:"size:200;not null;index" json:"name"`
	Description          string          `gorm:"type:text" json:"description"`
	Location             string          `gorm:"size:200;not null;index" json:"location"`
	Address              string          `gorm:"size:255" json:"address"`
	PhoneNumber          string          `gorm:"size:30" json:"phone_number"`
	Email                string          `gorm:"size:120" json:"email"`
	Capacity             *int            `json:"capacity"`
	CurrentChildrenCount int             `gorm:"not null" json:"current_children_count"`
	EstablishedDate      *datatypes.Date `json:"established_date"`
	ContactPerson        string          `gorm:"size:100" json:"contact_person"`
	Website              string          `gorm:"size:255" json:"website"`
	ImageURL             string          `gorm:"size:255" json:"image_url"`
	NeedsDescription     string          `gorm:"type:text" json:"needs_description"`
	IsActive             bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt            time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName specifies the table name for ChildrensHome
func (ChildrensHome) TableName() string {
	return "childrens_homes"
}

// Validate checks the write-time invariants of a home row
func (h *ChildrensHome) Validate() error {
	switch {
	case strings.TrimSpace(h.Name) == "":
		return types.ValidationError("name", "name is required")
	case len(h.Name) > 200:
		return types.ValidationError("name", "name must be at most 200 characters")
	case strings.TrimSpace(h.Location) == "":
		return types.ValidationError("location", "location is required")
	case len(h.Location) > 200:
		return types.ValidationError("location", "location must be at most 200 characters")
	case h.Capacity != nil && *h.Capacity < 0:
		return types.ValidationError("capacity", "capacity must be at least 0")
	case h.CurrentChildrenCount < 0:
		return types.ValidationError("current_children_count", "current_children_count must be at least 0")
	}
	return nil
}

// BeforeSave enforces invariants on create and update
func (h *ChildrensHome) BeforeSave(tx *gorm.DB) error {
	return h.Validate()
}
