package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	ListByClass(ctx context.Context, classID uint) ([]models.Assignment, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error
	CountByTemplate(ctx context.Context, templateID uint) (int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) ListByClass(ctx context.Context, classID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("class_id = ?", classID).
		Order("due_date ASC NULLS LAST, id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).Preload("Template").First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// Delete removes the assignment together with its question bank and every
// submission beneath it, deepest first, in a single transaction.
func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignment models.Assignment
		if err := tx.First(&assignment, id).Error; err != nil {
			return err
		}

		submissionIDs := tx.Model(&models.Submission{}).Select("id").Where("assignment_id = ?", id)
		if err := tx.Where("submission_id IN (?)", submissionIDs).Delete(&models.SubmissionAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id IN (?)", submissionIDs).Delete(&models.SubmissionAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}

		if err := deleteContent(tx, ContentOwner{AssignmentID: &id}); err != nil {
			return err
		}

		return tx.Delete(&models.Assignment{}, id).Error
	})
}

func (r *assignmentRepository) CountByTemplate(ctx context.Context, templateID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("template_id = ?", templateID).
		Count(&count).Error
	return count, err
}
