package models

import "time"

// Submission statuses.
const (
	SubmissionStatusDraft     = "draft"
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusGraded    = "graded"
)

// Submission is a student's single recorded response to an assignment. The
// composite unique index enforces at most one submission per student per
// assignment; re-submission is an upsert that replaces prior answers.
type Submission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;uniqueIndex:idx_submission_unique" json:"assignment_id"`
	StudentID    uint      `gorm:"not null;uniqueIndex:idx_submission_unique" json:"student_id"`
	SubmittedAt  time.Time `gorm:"not null" json:"submitted_at"`
	Status       string    `gorm:"size:32;not null" json:"status"`
	Result       *string   `gorm:"size:255" json:"result"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Assignment  Assignment             `gorm:"foreignKey:AssignmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student     Account                `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Answers     []SubmissionAnswer     `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
	Attachments []SubmissionAttachment `gorm:"foreignKey:SubmissionID" json:"attachments,omitempty"`
}

// IsGraded reports whether the submission carries a computed result.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

// SubmissionAnswer records one selected option. Multi-select questions
// produce several rows for the same question.
type SubmissionAnswer struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	SubmissionID uint `gorm:"not null;index" json:"submission_id"`
	QuestionID   uint `gorm:"not null" json:"question_id"`
	OptionID     uint `gorm:"not null" json:"option_id"`
}

// SubmissionAttachment is a free-form link handed in for classic assignments.
type SubmissionAttachment struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SubmissionID uint   `gorm:"not null;index" json:"submission_id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	URL          string `gorm:"size:1024;not null" json:"url"`
	Kind         string `gorm:"size:32" json:"kind"`
}
