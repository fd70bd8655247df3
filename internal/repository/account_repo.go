package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
)

// AccountFilter narrows account listings.
type AccountFilter struct {
	Role     string
	Search   string
	Page     int
	PageSize int
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	List(ctx context.Context, filter AccountFilter) ([]models.Account, int64, error)
	GetByID(ctx context.Context, id uint) (models.Account, error)
	GetByExternalID(ctx context.Context, externalID string) (models.Account, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository instantiates a GORM-backed repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) List(ctx context.Context, filter AccountFilter) ([]models.Account, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Account{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
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

	var accounts []models.Account
	if err := query.Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (r *accountRepository) GetByExternalID(ctx context.Context, externalID string) (models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&account).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&account).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}
