package models

import (
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a user's rating of a home. One per (user, home).
type Review struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint            `gorm:"not null;uniqueIndex:idx_reviews_user_home" json:"user_id"`
	User       *User           `gorm:"foreignKey:UserID" json:"-"`
	HomeID     uint            `gorm:"not null;uniqueIndex:idx_reviews_user_home;index" json:"home_id"`
	Home       *ChildrensHome  `gorm:"foreignKey:HomeID" json:"-"`
	Rating     int             `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Title      string          `gorm:"size:200" json:"title"`
	Comment    string          `gorm:"type:text" json:"comment"`
	VisitDate  *datatypes.Date `json:"visit_date"`
	Anonymous  bool            `gorm:"not null" json:"anonymous"`
	IsApproved bool            `gorm:"not null;index" json:"is_approved"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Review
func (Review) TableName() string {
	return "reviews"
}

// Validate checks the write-time invariants of a review row
func (r *Review) Validate() error {
	switch {
	case r.UserID == 0:
		return types.ValidationError("user_id", "user_id is required")
	case r.HomeID == 0:
		return types.ValidationError("home_id", "home_id is required")
	case r.Rating < MinRating || r.Rating > MaxRating:
		return types.ValidationError("rating", "rating must be between 1 and 5")
	case len(r.Title) > 200:
		return types.ValidationError("title", "title must be at most 200 characters")
	}
	return nil
}

// BeforeSave enforces invariants on create and update
func (r *Review) BeforeSave(tx *gorm.DB) error {
	return r.Validate()
}

// BeforeCreate publishes new reviews. There is no moderation queue.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	r.IsApproved = true
	return nil
}

// ReviewerName is the display name shown for the reviewer
func (r *Review) ReviewerName() string {
	if r.Anonymous {
		return "Anonymous"
	}
	if r.User == nil {
		return ""
	}
	return r.User.FullName()
}
