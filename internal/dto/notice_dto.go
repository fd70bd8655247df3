package dto

import (
	"time"

	"github.com/karierni-denik/denik-api/internal/models"
)

// NoticeCreateRequest describes the payload for posting a notice. The body
// may contain limited HTML; it is sanitized before storage.
type NoticeCreateRequest struct {
	Title  string `json:"title" validate:"required,min=1,max=255"`
	Body   string `json:"body" validate:"required,min=1"`
	Pinned bool   `json:"pinned"`
}

// NoticeUpdateRequest describes the payload for editing a notice.
type NoticeUpdateRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=1,max=255"`
	Body   *string `json:"body" validate:"omitempty,min=1"`
	Pinned *bool   `json:"pinned"`
}

// NoticeResponse is the serialized notice representation.
type NoticeResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Pinned      bool      `json:"pinned"`
	AuthorName  string    `json:"author_name"`
	PublishedAt time.Time `json:"published_at"`
}

// NewNoticeResponse converts a model into a DTO.
func NewNoticeResponse(model models.Notice) NoticeResponse {
	return NoticeResponse{
		ID:          model.ID,
		Title:       model.Title,
		Body:        model.Body,
		Pinned:      model.Pinned,
		AuthorName:  model.Author.Name,
		PublishedAt: model.PublishedAt,
	}
}

// NewNoticeResponseSlice converts notice models into DTOs.
func NewNoticeResponseSlice(notices []models.Notice) []NoticeResponse {
	responses := make([]NoticeResponse, 0, len(notices))
	for _, notice := range notices {
		responses = append(responses, NewNoticeResponse(notice))
	}
	return responses
}

// NoticeListResponse wraps a paginated notice board listing.
type NoticeListResponse struct {
	Notices  []NoticeResponse `json:"notices"`
	Total    int64            `json:"total"`
	CacheHit bool             `json:"-"`
}
