package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

// TemplateRepository defines persistence operations for reusable question
// bank templates.
type TemplateRepository interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Template, error)
	GetByID(ctx context.Context, id uint) (models.Template, error)
	Create(ctx context.Context, template *models.Template) error
	Update(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, id uint) error
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository instantiates a GORM-backed repository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Template, error) {
	var templates []models.Template
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id uint) (models.Template, error) {
	var template models.Template
	if err := r.db.WithContext(ctx).First(&template, id).Error; err != nil {
		return models.Template{}, err
	}
	return template, nil
}

func (r *templateRepository) Create(ctx context.Context, template *models.Template) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *templateRepository) Update(ctx context.Context, template *models.Template) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// Delete removes the template and its question bank in one transaction.
// Callers must reject deletion while assignments still reference it.
func (r *templateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var template models.Template
		if err := tx.First(&template, id).Error; err != nil {
			return err
		}
		if err := deleteContent(tx, ContentOwner{TemplateID: &id}); err != nil {
			return err
		}
		return tx.Delete(&models.Template{}, id).Error
	})
}
