package dto

import (
	"time"

	"github.com/karierni-denik/denik-api/internal/models"
)

// PortfolioFileResponse is the serialized portfolio file metadata.
type PortfolioFileResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPortfolioFileResponse converts a model into a DTO.
func NewPortfolioFileResponse(model models.PortfolioFile) PortfolioFileResponse {
	return PortfolioFileResponse{
		ID:        model.ID,
		Name:      model.Name,
		URL:       model.URL,
		MimeType:  model.MimeType,
		Size:      model.Size,
		CreatedAt: model.CreatedAt,
	}
}

// NewPortfolioFileResponseSlice converts portfolio models into DTOs.
func NewPortfolioFileResponseSlice(files []models.PortfolioFile) []PortfolioFileResponse {
	responses := make([]PortfolioFileResponse, 0, len(files))
	for _, file := range files {
		responses = append(responses, NewPortfolioFileResponse(file))
	}
	return responses
}
