package dto

import (
	"time"

	"github.com/karierni-denik/denik-api/internal/models"
)

// LoginRequest carries the identity claims handed over after external login.
type LoginRequest struct {
	ExternalID string `json:"external_id" validate:"required,min=1"`
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required,min=1"`
}

// AccountRoleUpdateRequest is the admin payload for changing a role.
type AccountRoleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=student teacher admin"`
}

// AccountListRequest describes admin account listing filters.
type AccountListRequest struct {
	Role     string `query:"role" validate:"omitempty,oneof=student teacher admin"`
	Search   string `query:"search"`
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	PageSize int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// AccountResponse is the serialized account representation.
type AccountResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccountResponse converts a model into a DTO.
func NewAccountResponse(model models.Account) AccountResponse {
	return AccountResponse{
		ID:        model.ID,
		Email:     model.Email,
		Name:      model.Name,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
}

// NewAccountResponseSlice converts a slice of models into DTOs.
func NewAccountResponseSlice(accounts []models.Account) []AccountResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, NewAccountResponse(account))
	}
	return responses
}

// AccountListResponse wraps a paginated account listing.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int64             `json:"total"`
}
