package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Staff roles. Roles outside this set are treated as plain staff and get
// the minimal navigation set.
const (
	RoleAdmin        = "Admin"
	RoleManager      = "Manager"
	RoleChef         = "Chef"
	RoleReceptionist = "Receptionist"
	RoleStaff        = "Staff"
)

// User represents a staff member of the restaurant back-office
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      string         `gorm:"not null;default:'Staff'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// ValidRole reports whether the given role is one of the known staff roles
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleChef, RoleReceptionist, RoleStaff:
		return true
	}
	return false
}

// HasRole compares the user's role against a candidate, case-insensitively
func (u *User) HasRole(role string) bool {
	return strings.EqualFold(u.Role, role)
}
