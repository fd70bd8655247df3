package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

// ContactFilter narrows directory listings.
type ContactFilter struct {
	Kind     string
	Search   string
	Page     int
	PageSize int
}

// ContactRepository defines persistence operations for the contacts and
// schools directory.
type ContactRepository interface {
	List(ctx context.Context, filter ContactFilter) ([]models.Contact, int64, error)
	GetByID(ctx context.Context, id uint) (models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository instantiates a GORM-backed repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) List(ctx context.Context, filter ContactFilter) ([]models.Contact, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Contact{})

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

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

	var contacts []models.Contact
	if err := query.Order("name ASC").Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id uint) (models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) Update(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Contact{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
