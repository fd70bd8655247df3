package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

// AuthService provisions accounts from external identity logins.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AccountResponse, error)
}

type authService struct {
	accounts    repository.AccountRepository
	validator   *validator.Validate
	adminEmails map[string]struct{}
	logger      zerolog.Logger
}

// NewAuthService constructs the auth service. adminEmails is the bootstrap
// admin list read once from configuration; matching accounts are promoted
// on login.
func NewAuthService(accounts repository.AccountRepository, validate *validator.Validate, adminEmails []string, logger zerolog.Logger) AuthService {
	normalized := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			normalized[email] = struct{}{}
		}
	}
	return &authService{
		accounts:    accounts,
		validator:   validate,
		adminEmails: normalized,
		logger:      logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AccountResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AccountResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	account, err := s.accounts.GetByExternalID(ctx, payload.ExternalID)
	switch {
	case err == nil:
		changed := false
		if account.Email != email {
			account.Email = email
			changed = true
		}
		if account.Name != payload.Name {
			account.Name = payload.Name
			changed = true
		}
		if s.shouldPromote(account) {
			account.Role = models.RoleAdmin
			changed = true
			s.logger.Info().Uint("account_id", account.ID).Msg("account promoted to admin from bootstrap list")
		}
		if changed {
			if err := s.accounts.Update(ctx, &account); err != nil {
				return dto.AccountResponse{}, err
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		account = models.Account{
			ExternalID: payload.ExternalID,
			Email:      email,
			Name:       payload.Name,
			Role:       models.RoleStudent,
		}
		if s.shouldPromote(account) {
			account.Role = models.RoleAdmin
		}
		if err := s.accounts.Create(ctx, &account); err != nil {
			return dto.AccountResponse{}, err
		}
		s.logger.Info().Uint("account_id", account.ID).Str("role", account.Role).Msg("account provisioned on first login")
	default:
		return dto.AccountResponse{}, err
	}

	return dto.NewAccountResponse(account), nil
}

func (s *authService) shouldPromote(account models.Account) bool {
	if account.Role == models.RoleAdmin {
		return false
	}
	_, listed := s.adminEmails[strings.ToLower(account.Email)]
	return listed
}
