package dto

import (
	"time"

	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

// TemplateCreateRequest describes the payload for creating a question bank
// template.
type TemplateCreateRequest struct {
	Name        string            `json:"name" validate:"required,min=1,max=255"`
	Description string            `json:"description"`
	Kind        string            `json:"kind" validate:"required,oneof=test outcome"`
	Questions   []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
	Outcomes    []string          `json:"outcomes" validate:"omitempty,dive,min=1"`
}

// TemplateUpdateRequest fully replaces the template's metadata and question
// bank. Every assignment referencing the template picks the change up on its
// next read or grade.
type TemplateUpdateRequest struct {
	Name        string            `json:"name" validate:"required,min=1,max=255"`
	Description string            `json:"description"`
	Questions   []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
	Outcomes    []string          `json:"outcomes" validate:"omitempty,dive,min=1"`
}

// TemplateResponse is the serialized template representation.
type TemplateResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Kind        string         `json:"kind"`
	Questions   []QuestionView `json:"questions,omitempty"`
	Outcomes    []CategoryView `json:"outcomes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewTemplateResponse converts a model plus its content into a DTO.
func NewTemplateResponse(model models.Template, content repository.ContentSet) TemplateResponse {
	return TemplateResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Kind:        model.Kind,
		Questions:   NewQuestionViews(content.Questions, true),
		Outcomes:    NewCategoryViews(content.Categories),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// TemplateListItem summarizes a template for listings.
type TemplateListItem struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTemplateListItems summarizes templates.
func NewTemplateListItems(templates []models.Template) []TemplateListItem {
	items := make([]TemplateListItem, 0, len(templates))
	for _, template := range templates {
		items = append(items, TemplateListItem{
			ID:          template.ID,
			Name:        template.Name,
			Description: template.Description,
			Kind:        template.Kind,
			CreatedAt:   template.CreatedAt,
		})
	}
	return items
}
