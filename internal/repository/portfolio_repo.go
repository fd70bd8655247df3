package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

// PortfolioRepository defines persistence operations for portfolio file
// metadata. The file bytes themselves live on the external drive service.
type PortfolioRepository interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]models.PortfolioFile, error)
	GetByID(ctx context.Context, id uint) (models.PortfolioFile, error)
	Create(ctx context.Context, file *models.PortfolioFile) error
	Delete(ctx context.Context, id uint) error
}

type portfolioRepository struct {
	db *gorm.DB
}

// NewPortfolioRepository instantiates a GORM-backed repository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.PortfolioFile, error) {
	var files []models.PortfolioFile
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *portfolioRepository) GetByID(ctx context.Context, id uint) (models.PortfolioFile, error) {
	var file models.PortfolioFile
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return models.PortfolioFile{}, err
	}
	return file, nil
}

func (r *portfolioRepository) Create(ctx context.Context, file *models.PortfolioFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *portfolioRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.PortfolioFile{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
