package models

import "time"

// Assignment kinds. The effective grading behavior of a predefined test is
// resolved through its referenced template.
const (
	AssignmentKindClassic        = "classic"
	AssignmentKindTest           = "test"
	AssignmentKindOutcome        = "outcome"
	AssignmentKindPredefinedTest = "predefined_test"
)

// Assignment represents a unit of work issued to a class.
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ClassID     uint       `gorm:"not null;index" json:"class_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Kind        string     `gorm:"size:32;not null" json:"kind"`
	TemplateID  *uint      `gorm:"index" json:"template_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Template *Template `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

// IsGradable reports whether submissions to this assignment are auto-graded.
func (a Assignment) IsGradable() bool {
	switch a.Kind {
	case AssignmentKindTest, AssignmentKindOutcome, AssignmentKindPredefinedTest:
		return true
	default:
		return false
	}
}

// IsPastDue returns true when the deadline exists and has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return a.DueDate != nil && reference.After(*a.DueDate)
}

// EffectiveKind resolves the grading mode, following the template reference
// for predefined tests. Callers must preload or pass the resolved template.
func (a Assignment) EffectiveKind() string {
	if a.Kind == AssignmentKindPredefinedTest && a.Template != nil {
		return a.Template.Kind
	}
	return a.Kind
}
