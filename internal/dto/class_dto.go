package dto

import (
	"time"

	"github.com/karierni-denik/denik-api/internal/models"
)

// ClassCreateRequest describes the payload for creating a class section.
type ClassCreateRequest struct {
	Subject string `json:"subject" validate:"required,min=1,max=255"`
	Cohort  string `json:"cohort" validate:"omitempty,max=64"`
	Room    string `json:"room" validate:"omitempty,max=64"`
	Color   string `json:"color" validate:"omitempty,max=16"`
}

// ClassUpdateRequest describes the payload for updating a class section.
type ClassUpdateRequest struct {
	Subject *string `json:"subject" validate:"omitempty,min=1,max=255"`
	Cohort  *string `json:"cohort" validate:"omitempty,max=64"`
	Room    *string `json:"room" validate:"omitempty,max=64"`
	Color   *string `json:"color" validate:"omitempty,max=16"`
}

// ClassJoinRequest carries the join code a student enters.
type ClassJoinRequest struct {
	Code string `json:"code" validate:"required,len=7,alphanum"`
}

// ClassTeacherRequest links a co-teacher by account id.
type ClassTeacherRequest struct {
	TeacherID uint `json:"teacher_id" validate:"required,gt=0"`
}

// ClassResponse is the serialized class representation.
type ClassResponse struct {
	ID        uint      `json:"id"`
	OwnerID   uint      `json:"owner_id"`
	Subject   string    `json:"subject"`
	Cohort    string    `json:"cohort"`
	Room      string    `json:"room"`
	Color     string    `json:"color"`
	JoinCode  string    `json:"join_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClassResponse converts a model into a DTO. The join code is only
// included for teachers; pass includeCode=false for student views.
func NewClassResponse(model models.ClassSection, includeCode bool) ClassResponse {
	response := ClassResponse{
		ID:        model.ID,
		OwnerID:   model.OwnerID,
		Subject:   model.Subject,
		Cohort:    model.Cohort,
		Room:      model.Room,
		Color:     model.Color,
		CreatedAt: model.CreatedAt,
	}
	if includeCode {
		response.JoinCode = model.JoinCode
	}
	return response
}

// NewClassResponseSlice converts class models into DTOs.
func NewClassResponseSlice(classes []models.ClassSection, includeCode bool) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class, includeCode))
	}
	return responses
}

// ClassRosterResponse lists the people attached to a class.
type ClassRosterResponse struct {
	Class    ClassResponse     `json:"class"`
	Teachers []AccountResponse `json:"teachers"`
	Students []AccountResponse `json:"students"`
}
