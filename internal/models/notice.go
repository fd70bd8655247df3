package models

import "time"

// Notice is one entry on the teacher-curated notice board ("Notísek").
// Body is stored sanitized; pinned notices list first.
type Notice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Body        string    `gorm:"type:text" json:"body"`
	Pinned      bool      `gorm:"not null;default:false" json:"pinned"`
	PublishedAt time.Time `gorm:"not null" json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author Account `gorm:"foreignKey:AuthorID" json:"author"`
}
