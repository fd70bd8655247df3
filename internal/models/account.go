package models

import "time"

// Account roles. Role changes are restricted to admin endpoints.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Account represents a user identity provisioned on first external login.
type Account struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"size:128;uniqueIndex;not null" json:"external_id"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Role       string    `gorm:"size:32;not null;default:student" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsTeacher reports whether the account may author classes and assignments.
func (a Account) IsTeacher() bool {
	return a.Role == RoleTeacher || a.Role == RoleAdmin
}

// IsAdmin reports whether the account may use admin-designated endpoints.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
