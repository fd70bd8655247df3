package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/repository"
)

// AccountAdminService covers admin-only account management.
type AccountAdminService interface {
	List(ctx context.Context, request dto.AccountListRequest, actor Actor) (dto.AccountListResponse, error)
	ChangeRole(ctx context.Context, accountID uint, payload dto.AccountRoleUpdateRequest, actor Actor) (dto.AccountResponse, error)
}

type accountAdminService struct {
	accounts  repository.AccountRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAccountAdminService constructs an AccountAdminService instance.
func NewAccountAdminService(accounts repository.AccountRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AccountAdminService {
	return &accountAdminService{
		accounts:  accounts,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "account_admin_service").Logger(),
	}
}

func (s *accountAdminService) List(ctx context.Context, request dto.AccountListRequest, actor Actor) (dto.AccountListResponse, error) {
	if !actor.IsAdmin() {
		return dto.AccountListResponse{}, ErrAccessDenied
	}
	if err := s.validator.Struct(request); err != nil {
		return dto.AccountListResponse{}, err
	}

	pageSize := request.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	accounts, total, err := s.accounts.List(ctx, repository.AccountFilter{
		Role:     request.Role,
		Search:   request.Search,
		Page:     request.Page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.AccountListResponse{}, err
	}

	return dto.AccountListResponse{
		Accounts: dto.NewAccountResponseSlice(accounts),
		Total:    total,
	}, nil
}

// ChangeRole reassigns an account's role. Admins cannot demote themselves;
// that would lock the last admin out.
func (s *accountAdminService) ChangeRole(ctx context.Context, accountID uint, payload dto.AccountRoleUpdateRequest, actor Actor) (dto.AccountResponse, error) {
	if !actor.IsAdmin() {
		return dto.AccountResponse{}, ErrAccessDenied
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.AccountResponse{}, err
	}
	if accountID == actor.ID {
		return dto.AccountResponse{}, fmt.Errorf("%w: admins cannot change their own role", ErrInvalidOperation)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AccountResponse{}, ErrNotFound
		}
		return dto.AccountResponse{}, err
	}

	previous := account.Role
	account.Role = payload.Role
	if err := s.accounts.Update(ctx, &account); err != nil {
		return dto.AccountResponse{}, err
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "account.role_changed",
			EntityType: "account",
			EntityID:   &accountID,
			Metadata: map[string]interface{}{
				"from": previous,
				"to":   account.Role,
			},
		})
	}

	s.logger.Info().
		Uint("account_id", accountID).
		Str("from", previous).
		Str("to", account.Role).
		Msg("account role changed")

	return dto.NewAccountResponse(account), nil
}
