// Package models contains data structures for the marketplace domain.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the account category attached to every user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleCompany    Role = "company"
	RoleGovernment Role = "government"
)

var roleAliases = map[string]Role{
	"admin":         RoleAdmin,
	"administrador": RoleAdmin,
	"user":          RoleUser,
	"usuario":       RoleUser,
	"company":       RoleCompany,
	"empresa":       RoleCompany,
	"government":    RoleGovernment,
	"gobierno":      RoleGovernment,
}

// ParseRole resolves a role name, accepting the legacy Spanish labels.
func ParseRole(s string) (Role, bool) {
	r, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

// User is a marketplace account. DeletedAt doubles as the soft-delete flag,
// so every default query only sees active accounts.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"size:20;not null;uniqueIndex:idx_users_username_active,where:deleted_at IS NULL" json:"username"`
	Email     string         `gorm:"size:254;not null;uniqueIndex:idx_users_email_active,where:deleted_at IS NULL" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"size:20;not null;default:user" json:"role"`
	Friends   IDList         `gorm:"type:text" json:"friends"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Favorite is one row of the user↔drone favorites set.
type Favorite struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	DroneID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"drone_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the join table name.
func (Favorite) TableName() string {
	return "user_favorites"
}
