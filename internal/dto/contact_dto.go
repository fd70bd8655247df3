package dto

import (
	"time"

	"github.com/karierni-denik/denik-api/internal/models"
)

// ContactCreateRequest describes the payload for adding a directory entry.
type ContactCreateRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=school person"`
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=64"`
	Web     string `json:"web" validate:"omitempty,url"`
	Address string `json:"address" validate:"omitempty,max=512"`
	Note    string `json:"note"`
}

// ContactUpdateRequest describes the payload for editing a directory entry.
type ContactUpdateRequest struct {
	Kind    *string `json:"kind" validate:"omitempty,oneof=school person"`
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=64"`
	Web     *string `json:"web" validate:"omitempty,url"`
	Address *string `json:"address" validate:"omitempty,max=512"`
	Note    *string `json:"note"`
}

// ContactListRequest describes directory listing filters.
type ContactListRequest struct {
	Kind     string `query:"kind" validate:"omitempty,oneof=school person"`
	Search   string `query:"search"`
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	PageSize int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ContactResponse is the serialized directory entry.
type ContactResponse struct {
	ID        uint      `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Web       string    `json:"web"`
	Address   string    `json:"address"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// NewContactResponse converts a model into a DTO.
func NewContactResponse(model models.Contact) ContactResponse {
	return ContactResponse{
		ID:        model.ID,
		Kind:      model.Kind,
		Name:      model.Name,
		Email:     model.Email,
		Phone:     model.Phone,
		Web:       model.Web,
		Address:   model.Address,
		Note:      model.Note,
		CreatedAt: model.CreatedAt,
	}
}

// NewContactResponseSlice converts contact models into DTOs.
func NewContactResponseSlice(contacts []models.Contact) []ContactResponse {
	responses := make([]ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		responses = append(responses, NewContactResponse(contact))
	}
	return responses
}

// ContactListResponse wraps a paginated directory listing.
type ContactListResponse struct {
	Contacts []ContactResponse `json:"contacts"`
	Total    int64             `json:"total"`
}
