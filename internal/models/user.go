package models

import (
	"gorm.io/gorm"
)

// Role is the closed set of access roles. Unknown values are rejected at the
// boundary and never stored.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleTeamMember     Role = "team_member"
)

// IsValid reports whether the role is one of the three known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleTeamMember:
		return true
	default:
		return false
	}
}

// CanManageWork reports whether the role may create/modify teams, projects
// and tasks (everything beyond self-service status updates).
func (r Role) CanManageWork() bool {
	return r == RoleAdmin || r == RoleProjectManager
}

// User represents a user in the system
type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     Role   `json:"role" gorm:"not null;default:'team_member'"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
