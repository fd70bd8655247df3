package models

import "time"

// Question belongs to exactly one of an assignment or a template.
type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID *uint     `gorm:"index" json:"assignment_id"`
	TemplateID   *uint     `gorm:"index" json:"template_id"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	Points       float64   `gorm:"not null;default:1" json:"points"`
	CreatedAt    time.Time `json:"created_at"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options"`
}

// Option is one selectable answer for a question. For outcome quizzes the
// per-category scoring lives in OptionOutcomePoint rows.
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`

	OutcomePoints []OptionOutcomePoint `gorm:"foreignKey:OptionID" json:"outcome_points,omitempty"`
}

// OutcomeCategory belongs to exactly one of an assignment or a template.
// Position preserves declaration order, which decides grading tie-breaks.
type OutcomeCategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID *uint     `gorm:"index" json:"assignment_id"`
	TemplateID   *uint     `gorm:"index" json:"template_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

// OptionOutcomePoint is the sparse option-to-category scoring map. Only
// non-zero entries are stored.
type OptionOutcomePoint struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	OptionID   uint `gorm:"not null;uniqueIndex:idx_option_category" json:"option_id"`
	CategoryID uint `gorm:"not null;uniqueIndex:idx_option_category" json:"category_id"`
	Points     int  `gorm:"not null" json:"points"`
}
