package models

import "time"

// Contact kinds.
const (
	ContactKindSchool = "school"
	ContactKindPerson = "person"
)

// Contact is one entry in the contacts/schools directory.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Web       string    `gorm:"size:512" json:"web"`
	Address   string    `gorm:"size:512" json:"address"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
