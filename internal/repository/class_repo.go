package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

// ClassRepository defines persistence operations for class sections and
// their teacher/student membership relations.
type ClassRepository interface {
	ListOwnedOrCoTaught(ctx context.Context, teacherID uint) ([]models.ClassSection, error)
	ListEnrolled(ctx context.Context, studentID uint) ([]models.ClassSection, error)
	GetByID(ctx context.Context, id uint) (models.ClassSection, error)
	GetByJoinCode(ctx context.Context, code string) (models.ClassSection, error)
	JoinCodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, class *models.ClassSection) error
	Update(ctx context.Context, class *models.ClassSection) error
	Delete(ctx context.Context, id uint) error

	AddTeacher(ctx context.Context, classID, teacherID uint) error
	RemoveTeacher(ctx context.Context, classID, teacherID uint) error
	ListTeachers(ctx context.Context, classID uint) ([]models.ClassTeacher, error)
	IsTeacher(ctx context.Context, classID, teacherID uint) (bool, error)

	Enroll(ctx context.Context, classID, studentID uint) error
	ListStudents(ctx context.Context, classID uint) ([]models.ClassEnrollment, error)
	IsEnrolled(ctx context.Context, classID, studentID uint) (bool, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates a GORM-backed repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) ListOwnedOrCoTaught(ctx context.Context, teacherID uint) ([]models.ClassSection, error) {
	var classes []models.ClassSection
	err := r.db.WithContext(ctx).
		Distinct("class_sections.*").
		Joins("LEFT JOIN class_teachers ON class_teachers.class_id = class_sections.id").
		Where("class_sections.owner_id = ? OR class_teachers.teacher_id = ?", teacherID, teacherID).
		Order("class_sections.subject ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) ListEnrolled(ctx context.Context, studentID uint) ([]models.ClassSection, error) {
	var classes []models.ClassSection
	err := r.db.WithContext(ctx).
		Joins("JOIN class_enrollments ON class_enrollments.class_id = class_sections.id").
		Where("class_enrollments.student_id = ?", studentID).
		Order("class_sections.subject ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.ClassSection, error) {
	var class models.ClassSection
	if err := r.db.WithContext(ctx).Preload("Owner").First(&class, id).Error; err != nil {
		return models.ClassSection{}, err
	}
	return class, nil
}

func (r *classRepository) GetByJoinCode(ctx context.Context, code string) (models.ClassSection, error) {
	var class models.ClassSection
	if err := r.db.WithContext(ctx).Where("join_code = ?", code).First(&class).Error; err != nil {
		return models.ClassSection{}, err
	}
	return class, nil
}

func (r *classRepository) JoinCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassSection{}).
		Where("join_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *classRepository) Create(ctx context.Context, class *models.ClassSection) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) Update(ctx context.Context, class *models.ClassSection) error {
	return r.db.WithContext(ctx).Save(class).Error
}

// Delete removes the class and everything beneath it in dependency order,
// deepest first, inside a single transaction. A partially applied cascade
// must never be observable.
func (r *classRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class models.ClassSection
		if err := tx.First(&class, id).Error; err != nil {
			return err
		}

		assignmentIDs := tx.Model(&models.Assignment{}).Select("id").Where("class_id = ?", id)
		questionIDs := tx.Model(&models.Question{}).Select("id").Where("assignment_id IN (?)", assignmentIDs)
		optionIDs := tx.Model(&models.Option{}).Select("id").Where("question_id IN (?)", questionIDs)
		submissionIDs := tx.Model(&models.Submission{}).Select("id").Where("assignment_id IN (?)", assignmentIDs)

		if err := tx.Where("submission_id IN (?)", submissionIDs).Delete(&models.SubmissionAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id IN (?)", submissionIDs).Delete(&models.SubmissionAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("option_id IN (?)", optionIDs).Delete(&models.OptionOutcomePoint{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&models.OutcomeCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", id).Delete(&models.ClassEnrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", id).Delete(&models.ClassTeacher{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.ClassSection{}, id).Error
	})
}

func (r *classRepository) AddTeacher(ctx context.Context, classID, teacherID uint) error {
	link := models.ClassTeacher{ClassID: classID, TeacherID: teacherID}
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *classRepository) RemoveTeacher(ctx context.Context, classID, teacherID uint) error {
	result := r.db.WithContext(ctx).
		Where("class_id = ? AND teacher_id = ?", classID, teacherID).
		Delete(&models.ClassTeacher{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *classRepository) ListTeachers(ctx context.Context, classID uint) ([]models.ClassTeacher, error) {
	var teachers []models.ClassTeacher
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("class_id = ?", classID).
		Find(&teachers).Error
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

// IsTeacher reports whether the account owns the class or is linked as a
// co-teacher.
func (r *classRepository) IsTeacher(ctx context.Context, classID, teacherID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassSection{}).
		Where("id = ? AND owner_id = ?", classID, teacherID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.WithContext(ctx).Model(&models.ClassTeacher{}).
		Where("class_id = ? AND teacher_id = ?", classID, teacherID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *classRepository) Enroll(ctx context.Context, classID, studentID uint) error {
	enrollment := models.ClassEnrollment{ClassID: classID, StudentID: studentID}
	return r.db.WithContext(ctx).Create(&enrollment).Error
}

func (r *classRepository) ListStudents(ctx context.Context, classID uint) ([]models.ClassEnrollment, error) {
	var enrollments []models.ClassEnrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("class_id = ?", classID).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *classRepository) IsEnrolled(ctx context.Context, classID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassEnrollment{}).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
