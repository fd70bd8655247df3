package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

// ContentOwner identifies which entity a question bank belongs to. Exactly
// one field must be set.
type ContentOwner struct {
	AssignmentID *uint
	TemplateID   *uint
}

func (o ContentOwner) valid() bool {
	return (o.AssignmentID != nil) != (o.TemplateID != nil)
}

// ContentSet is a complete question bank: questions with their options (and
// sparse outcome point maps) plus the declared outcome categories in order.
type ContentSet struct {
	Questions  []models.Question
	Categories []models.OutcomeCategory
}

// ContentRepository stores questions, options and outcome categories for
// assignments and templates through a single owner abstraction.
type ContentRepository interface {
	Load(ctx context.Context, owner ContentOwner) (ContentSet, error)
	// Replace destructively swaps the owner's entire question bank in one
	// transaction. Incoming OptionOutcomePoint.CategoryID values are indexes
	// into content.Categories and are rewritten to the inserted row IDs.
	Replace(ctx context.Context, owner ContentOwner, content ContentSet) error
	DeleteAll(ctx context.Context, owner ContentOwner) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository instantiates a GORM-backed repository.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func ownerClause(query *gorm.DB, owner ContentOwner) *gorm.DB {
	if owner.AssignmentID != nil {
		return query.Where("assignment_id = ?", *owner.AssignmentID)
	}
	return query.Where("template_id = ?", *owner.TemplateID)
}

func (r *contentRepository) Load(ctx context.Context, owner ContentOwner) (ContentSet, error) {
	if !owner.valid() {
		return ContentSet{}, fmt.Errorf("content owner must reference exactly one of assignment or template")
	}

	var content ContentSet

	questions := ownerClause(r.db.WithContext(ctx).Model(&models.Question{}), owner)
	err := questions.
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("options.id ASC") }).
		Preload("Options.OutcomePoints").
		Order("position ASC, id ASC").
		Find(&content.Questions).Error
	if err != nil {
		return ContentSet{}, err
	}

	categories := ownerClause(r.db.WithContext(ctx).Model(&models.OutcomeCategory{}), owner)
	if err := categories.Order("position ASC, id ASC").Find(&content.Categories).Error; err != nil {
		return ContentSet{}, err
	}

	return content, nil
}

func (r *contentRepository) Replace(ctx context.Context, owner ContentOwner, content ContentSet) error {
	if !owner.valid() {
		return fmt.Errorf("content owner must reference exactly one of assignment or template")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteContent(tx, owner); err != nil {
			return err
		}

		categoryIDs := make([]uint, len(content.Categories))
		for i := range content.Categories {
			category := content.Categories[i]
			category.ID = 0
			category.AssignmentID = owner.AssignmentID
			category.TemplateID = owner.TemplateID
			category.Position = i
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
			categoryIDs[i] = category.ID
		}

		for i := range content.Questions {
			question := content.Questions[i]
			options := question.Options
			question.ID = 0
			question.Options = nil
			question.AssignmentID = owner.AssignmentID
			question.TemplateID = owner.TemplateID
			question.Position = i
			if err := tx.Create(&question).Error; err != nil {
				return err
			}

			for j := range options {
				option := options[j]
				points := option.OutcomePoints
				option.ID = 0
				option.OutcomePoints = nil
				option.QuestionID = question.ID
				if err := tx.Create(&option).Error; err != nil {
					return err
				}

				for _, entry := range points {
					if entry.Points == 0 {
						continue
					}
					index := int(entry.CategoryID)
					if index < 0 || index >= len(categoryIDs) {
						return fmt.Errorf("outcome point references unknown category index %d", index)
					}
					row := models.OptionOutcomePoint{
						OptionID:   option.ID,
						CategoryID: categoryIDs[index],
						Points:     entry.Points,
					}
					if err := tx.Create(&row).Error; err != nil {
						return err
					}
				}
			}
		}

		return nil
	})
}

func (r *contentRepository) DeleteAll(ctx context.Context, owner ContentOwner) error {
	if !owner.valid() {
		return fmt.Errorf("content owner must reference exactly one of assignment or template")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteContent(tx, owner)
	})
}

func deleteContent(tx *gorm.DB, owner ContentOwner) error {
	questionIDs := ownerClause(tx.Model(&models.Question{}).Select("id"), owner)
	optionIDs := tx.Model(&models.Option{}).Select("id").Where("question_id IN (?)", questionIDs)

	if err := tx.Where("option_id IN (?)", optionIDs).Delete(&models.OptionOutcomePoint{}).Error; err != nil {
		return err
	}

	questionIDs = ownerClause(tx.Model(&models.Question{}).Select("id"), owner)
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Option{}).Error; err != nil {
		return err
	}
	if err := ownerClause(tx.Session(&gorm.Session{}), owner).Delete(&models.Question{}).Error; err != nil {
		return err
	}
	return ownerClause(tx.Session(&gorm.Session{}), owner).Delete(&models.OutcomeCategory{}).Error
}
