package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

// NoticeFilter controls notice board pagination.
type NoticeFilter struct {
	Page     int
	PageSize int
}

// NoticeRepository defines persistence operations for the notice board.
type NoticeRepository interface {
	List(ctx context.Context, filter NoticeFilter) ([]models.Notice, int64, error)
	GetByID(ctx context.Context, id uint) (models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) error
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id uint) error
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository instantiates a GORM-backed repository.
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) List(ctx context.Context, filter NoticeFilter) ([]models.Notice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notice{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var notices []models.Notice
	err := query.
		Preload("Author").
		Order("pinned DESC, published_at DESC").
		Find(&notices).Error
	if err != nil {
		return nil, 0, err
	}

	return notices, total, nil
}

func (r *noticeRepository) GetByID(ctx context.Context, id uint) (models.Notice, error) {
	var notice models.Notice
	if err := r.db.WithContext(ctx).Preload("Author").First(&notice, id).Error; err != nil {
		return models.Notice{}, err
	}
	return notice, nil
}

func (r *noticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *noticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	return r.db.WithContext(ctx).Save(notice).Error
}

func (r *noticeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Notice{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
