package dto

import (
	"time"

	"github.com/karierni-denik/denik-api/internal/grading"
	"github.com/karierni-denik/denik-api/internal/models"
)

// AttachmentPayload is one handed-in link for a classic assignment.
type AttachmentPayload struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	URL  string `json:"url" validate:"required,url"`
	Kind string `json:"kind" validate:"omitempty,max=32"`
}

// SubmitRequest is a student's answer set or attachment list for one
// assignment. Answers map question IDs to selected option IDs.
type SubmitRequest struct {
	Answers     map[uint][]uint     `json:"answers" validate:"omitempty"`
	Attachments []AttachmentPayload `json:"attachments" validate:"omitempty,dive"`
	Status      string              `json:"status" validate:"omitempty,oneof=draft submitted"`
}

// SubmitResponse reports the stored submission state and computed result.
type SubmitResponse struct {
	SubmissionID uint    `json:"submission_id"`
	Status       string  `json:"status"`
	Result       *string `json:"result"`
}

// AttachmentView serializes a stored attachment.
type AttachmentView struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

// SubmissionView is the submission state embedded in assignment views.
type SubmissionView struct {
	ID          uint             `json:"id"`
	Status      string           `json:"status"`
	Result      *string          `json:"result"`
	SubmittedAt time.Time        `json:"submitted_at"`
	Answers     map[uint][]uint  `json:"answers,omitempty"`
	Attachments []AttachmentView `json:"attachments,omitempty"`
}

// NewSubmissionView converts a submission model.
func NewSubmissionView(model models.Submission) SubmissionView {
	view := SubmissionView{
		ID:          model.ID,
		Status:      model.Status,
		Result:      model.Result,
		SubmittedAt: model.SubmittedAt,
	}
	if len(model.Answers) > 0 {
		view.Answers = make(map[uint][]uint, len(model.Answers))
		for _, answer := range model.Answers {
			view.Answers[answer.QuestionID] = append(view.Answers[answer.QuestionID], answer.OptionID)
		}
	}
	for _, attachment := range model.Attachments {
		view.Attachments = append(view.Attachments, AttachmentView{
			Name: attachment.Name,
			URL:  attachment.URL,
			Kind: attachment.Kind,
		})
	}
	return view
}

// StudentAssignmentView is the assignment as a student sees it: content with
// correctness hidden until submitted, plus their own submission if present.
type StudentAssignmentView struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"due_date"`
	Kind        string          `json:"kind"`
	Questions   []QuestionView  `json:"questions,omitempty"`
	Outcomes    []CategoryView  `json:"outcomes,omitempty"`
	Submission  *SubmissionView `json:"submission,omitempty"`
}

// AssignmentResult is one assignment's grading detail in a teacher's
// per-student results listing. Reports are re-derived from stored answers.
type AssignmentResult struct {
	Assignment AssignmentListItem     `json:"assignment"`
	Submission *SubmissionView        `json:"submission,omitempty"`
	Test       *grading.TestReport    `json:"test,omitempty"`
	Outcome    *grading.OutcomeReport `json:"outcome,omitempty"`
	Questions  []QuestionView         `json:"questions,omitempty"`
}

// StudentResultsResponse aggregates one student's results across a class.
type StudentResultsResponse struct {
	Student AccountResponse    `json:"student"`
	Results []AssignmentResult `json:"results"`
}
