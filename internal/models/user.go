package models

import (
	"strings"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/gorm"
)

// Role is the authorization role of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered donor, reviewer or visitor, or an administrator
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:80;not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string    `gorm:"size:120;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:50;not null" json:"first_name"`
	LastName     string    `gorm:"size:50;not null" json:"last_name"`
	Role         Role      `gorm:"size:20;not null;index" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	DateJoined   time.Time `gorm:"autoCreateTime;index" json:"date_joined"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate checks the write-time invariants of a user row
func (u *User) Validate() error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	switch {
	case strings.TrimSpace(u.Username) == "":
		return types.ValidationError("username", "username is required")
	case len(u.Username) > 80:
		return types.ValidationError("username", "username must be at most 80 characters")
	case !strings.Contains(u.Email, "@"):
		return types.ValidationError("email", "email must be a valid email address")
	case len(u.Email) > 120:
		return types.ValidationError("email", "email must be at most 120 characters")
	case strings.TrimSpace(u.FirstName) == "":
		return types.ValidationError("first_name", "first_name is required")
	case strings.TrimSpace(u.LastName) == "":
		return types.ValidationError("last_name", "last_name is required")
	case u.PasswordHash == "":
		return types.ValidationError("password", "password is required")
	case !u.Role.Valid():
		return types.ValidationError("role", "role must be one of: user, admin")
	}
	return nil
}

// BeforeSave enforces invariants on create and update
func (u *User) BeforeSave(tx *gorm.DB) error {
	return u.Validate()
}
