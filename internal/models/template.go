package models

import "time"

// Template kinds mirror the gradable assignment kinds.
const (
	TemplateKindTest    = "test"
	TemplateKindOutcome = "outcome"
)

// Template is a reusable, class-independent question bank. Assignments of
// kind predefined_test hold no questions of their own and resolve content
// through their template at read and grade time.
type Template struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Kind        string    `gorm:"size:32;not null" json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
