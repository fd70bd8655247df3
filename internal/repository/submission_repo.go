package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/karierni-denik/denik-api/internal/models"
)

// SubmissionRepository defines data operations for submissions and their
// answers and attachments.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error)
	ListForStudent(ctx context.Context, studentID uint, assignmentIDs []uint) ([]models.Submission, error)
	// Upsert writes the submission keyed on (assignment_id, student_id) and
	// replaces all prior answers and attachments in one transaction. Two
	// racing submits collapse onto the unique index instead of duplicating.
	Upsert(ctx context.Context, submission *models.Submission, answers []models.SubmissionAnswer, attachments []models.SubmissionAttachment) error
	Delete(ctx context.Context, id uint) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates a GORM-backed repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Answers").
		Preload("Attachments").
		Preload("Student")
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).Preload("Assignment").Preload("Assignment.Template").First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Submission, error) {
	var submission models.Submission
	err := r.baseQuery(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("student_id = ?", studentID).
		First(&submission).Error
	if err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.baseQuery(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListForStudent(ctx context.Context, studentID uint, assignmentIDs []uint) ([]models.Submission, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	var submissions []models.Submission
	err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Where("assignment_id IN ?", assignmentIDs).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) Upsert(ctx context.Context, submission *models.Submission, answers []models.SubmissionAnswer, attachments []models.SubmissionAttachment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Submission
		err := tx.Where("assignment_id = ? AND student_id = ?", submission.AssignmentID, submission.StudentID).
			First(&existing).Error
		switch {
		case err == nil:
			submission.ID = existing.ID
			submission.CreatedAt = existing.CreatedAt
			if err := tx.Save(submission).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// The conflict clause covers the race where another insert lands
			// between the lookup above and this create.
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "assignment_id"}, {Name: "student_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"submitted_at", "status", "result", "updated_at",
				}),
			}).Create(submission).Error
			if err != nil {
				return err
			}
		default:
			return err
		}

		if err := tx.Where("submission_id = ?", submission.ID).Delete(&models.SubmissionAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", submission.ID).Delete(&models.SubmissionAttachment{}).Error; err != nil {
			return err
		}

		for i := range answers {
			answers[i].ID = 0
			answers[i].SubmissionID = submission.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		for i := range attachments {
			attachments[i].ID = 0
			attachments[i].SubmissionID = submission.ID
			if err := tx.Create(&attachments[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes the submission and its answers/attachments atomically.
func (r *submissionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		if err := tx.First(&submission, id).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&models.SubmissionAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&models.SubmissionAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Submission{}, id).Error
	})
}
