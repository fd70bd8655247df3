package dto

import (
	"time"

	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

// OutcomePointPayload awards points to an outcome category, referenced by
// its index in the request's outcomes list. Zero-point entries are dropped.
type OutcomePointPayload struct {
	Category int `json:"category" validate:"gte=0"`
	Points   int `json:"points"`
}

// OptionPayload is one selectable answer in a create/update request.
type OptionPayload struct {
	Text          string                `json:"text" validate:"required,min=1"`
	IsCorrect     bool                  `json:"is_correct"`
	OutcomePoints []OutcomePointPayload `json:"outcome_points" validate:"omitempty,dive"`
}

// QuestionPayload is one question in a create/update request.
type QuestionPayload struct {
	Text    string          `json:"text" validate:"required,min=1"`
	Points  float64         `json:"points" validate:"omitempty,gte=0"`
	Options []OptionPayload `json:"options" validate:"required,min=1,dive"`
}

// AssignmentCreateRequest describes the payload for creating an assignment.
// Questions and outcomes are only valid for test/outcome kinds; predefined
// tests must carry a template reference and no local content.
type AssignmentCreateRequest struct {
	Title       string            `json:"title" validate:"required,min=1,max=255"`
	Description string            `json:"description"`
	DueDate     *string           `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Kind        string            `json:"kind" validate:"required,oneof=classic test outcome predefined_test"`
	TemplateID  *uint             `json:"template_id" validate:"omitempty,gt=0"`
	Questions   []QuestionPayload `json:"questions" validate:"omitempty,dive"`
	Outcomes    []string          `json:"outcomes" validate:"omitempty,dive,min=1"`
}

// AssignmentUpdateRequest fully replaces the assignment's metadata and, for
// gradable kinds, its question bank (destructive re-insert).
type AssignmentUpdateRequest struct {
	Title       string            `json:"title" validate:"required,min=1,max=255"`
	Description string            `json:"description"`
	DueDate     *string           `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Questions   []QuestionPayload `json:"questions" validate:"omitempty,dive"`
	Outcomes    []string          `json:"outcomes" validate:"omitempty,dive,min=1"`
}

// OutcomePointView exposes a stored option-to-category award.
type OutcomePointView struct {
	CategoryID uint `json:"category_id"`
	Points     int  `json:"points"`
}

// OptionView serializes an option. IsCorrect and OutcomePoints are omitted
// on student views until the student has submitted.
type OptionView struct {
	ID            uint               `json:"id"`
	Text          string             `json:"text"`
	IsCorrect     *bool              `json:"is_correct,omitempty"`
	OutcomePoints []OutcomePointView `json:"outcome_points,omitempty"`
}

// QuestionView serializes a question with its options.
type QuestionView struct {
	ID       uint         `json:"id"`
	Text     string       `json:"text"`
	Position int          `json:"position"`
	Points   float64      `json:"points"`
	Options  []OptionView `json:"options"`
}

// CategoryView serializes an outcome category.
type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AssignmentResponse is the teacher-facing assignment representation with
// the fully revealed question bank.
type AssignmentResponse struct {
	ID          uint           `json:"id"`
	ClassID     uint           `json:"class_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     *time.Time     `json:"due_date"`
	Kind        string         `json:"kind"`
	TemplateID  *uint          `json:"template_id,omitempty"`
	Questions   []QuestionView `json:"questions,omitempty"`
	Outcomes    []CategoryView `json:"outcomes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewAssignmentResponse converts a model plus its resolved content into the
// teacher view.
func NewAssignmentResponse(model models.Assignment, content repository.ContentSet) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		ClassID:     model.ClassID,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		Kind:        model.Kind,
		TemplateID:  model.TemplateID,
		Questions:   NewQuestionViews(content.Questions, true),
		Outcomes:    NewCategoryViews(content.Categories),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewQuestionViews serializes questions; revealed controls whether answer
// correctness and outcome scoring are exposed.
func NewQuestionViews(questions []models.Question, revealed bool) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for _, question := range questions {
		view := QuestionView{
			ID:       question.ID,
			Text:     question.Text,
			Position: question.Position,
			Points:   question.Points,
			Options:  make([]OptionView, 0, len(question.Options)),
		}
		for _, option := range question.Options {
			optionView := OptionView{ID: option.ID, Text: option.Text}
			if revealed {
				correct := option.IsCorrect
				optionView.IsCorrect = &correct
				for _, entry := range option.OutcomePoints {
					optionView.OutcomePoints = append(optionView.OutcomePoints, OutcomePointView{
						CategoryID: entry.CategoryID,
						Points:     entry.Points,
					})
				}
			}
			view.Options = append(view.Options, optionView)
		}
		views = append(views, view)
	}
	return views
}

// NewCategoryViews serializes outcome categories in declaration order.
func NewCategoryViews(categories []models.OutcomeCategory) []CategoryView {
	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, CategoryView{ID: category.ID, Name: category.Name})
	}
	return views
}

// AssignmentListItem summarizes an assignment for listings.
type AssignmentListItem struct {
	ID      uint       `json:"id"`
	Title   string     `json:"title"`
	DueDate *time.Time `json:"due_date"`
	Kind    string     `json:"kind"`
}

// NewAssignmentListItems summarizes assignments.
func NewAssignmentListItems(assignments []models.Assignment) []AssignmentListItem {
	items := make([]AssignmentListItem, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, AssignmentListItem{
			ID:      assignment.ID,
			Title:   assignment.Title,
			DueDate: assignment.DueDate,
			Kind:    assignment.Kind,
		})
	}
	return items
}
