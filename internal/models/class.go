package models

import "time"

// ClassSection represents a taught class with an owning teacher.
type ClassSection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Cohort    string    `gorm:"size:64" json:"cohort"`
	Room      string    `gorm:"size:64" json:"room"`
	Color     string    `gorm:"size:16" json:"color"`
	JoinCode  string    `gorm:"size:16;uniqueIndex;not null" json:"join_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner Account `gorm:"foreignKey:OwnerID" json:"owner"`
}

// ClassTeacher links an additional (co-)teacher to a class. Ownership stays
// with ClassSection.OwnerID.
type ClassTeacher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClassID   uint      `gorm:"not null;uniqueIndex:idx_class_teacher" json:"class_id"`
	TeacherID uint      `gorm:"not null;uniqueIndex:idx_class_teacher" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`

	Teacher Account `gorm:"foreignKey:TeacherID" json:"teacher"`
}

// ClassEnrollment links a student to a class they joined via join code.
type ClassEnrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClassID   uint      `gorm:"not null;uniqueIndex:idx_class_student" json:"class_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_class_student" json:"student_id"`
	CreatedAt time.Time `json:"created_at"`

	Student Account `gorm:"foreignKey:StudentID" json:"student"`
}
