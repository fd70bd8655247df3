package models

import "time"

// PortfolioFile is student-owned metadata pointing to a file stored on the
// external drive service. Its lifecycle is independent of assignments.
type PortfolioFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	PublicID  string    `gorm:"size:255;not null" json:"public_id"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	MimeType  string    `gorm:"size:128" json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
