package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

// ContactService runs the shared directory of schools and counselling
// contacts. Everyone signed in may read; teachers maintain the entries.
type ContactService interface {
	List(ctx context.Context, request dto.ContactListRequest) (dto.ContactListResponse, error)
	Get(ctx context.Context, id uint) (dto.ContactResponse, error)
	Create(ctx context.Context, payload dto.ContactCreateRequest, actor Actor) (dto.ContactResponse, error)
	Update(ctx context.Context, id uint, payload dto.ContactUpdateRequest, actor Actor) (dto.ContactResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type contactService struct {
	contacts  repository.ContactRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewContactService constructs a ContactService instance.
func NewContactService(contacts repository.ContactRepository, validate *validator.Validate, logger zerolog.Logger) ContactService {
	return &contactService{
		contacts:  contacts,
		validator: validate,
		logger:    logger.With().Str("component", "contact_service").Logger(),
	}
}

func (s *contactService) List(ctx context.Context, request dto.ContactListRequest) (dto.ContactListResponse, error) {
	if err := s.validator.Struct(request); err != nil {
		return dto.ContactListResponse{}, err
	}

	pageSize := request.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	contacts, total, err := s.contacts.List(ctx, repository.ContactFilter{
		Kind:     request.Kind,
		Search:   request.Search,
		Page:     request.Page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.ContactListResponse{}, err
	}

	return dto.ContactListResponse{
		Contacts: dto.NewContactResponseSlice(contacts),
		Total:    total,
	}, nil
}

func (s *contactService) Get(ctx context.Context, id uint) (dto.ContactResponse, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ContactResponse{}, ErrNotFound
		}
		return dto.ContactResponse{}, err
	}
	return dto.NewContactResponse(contact), nil
}

func (s *contactService) Create(ctx context.Context, payload dto.ContactCreateRequest, actor Actor) (dto.ContactResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ContactResponse{}, err
	}
	if !actor.IsTeacher() {
		return dto.ContactResponse{}, ErrAccessDenied
	}

	contact := models.Contact{
		Kind:    payload.Kind,
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Web:     payload.Web,
		Address: payload.Address,
		Note:    payload.Note,
	}
	if err := s.contacts.Create(ctx, &contact); err != nil {
		return dto.ContactResponse{}, err
	}

	s.logger.Info().Uint("contact_id", contact.ID).Str("kind", contact.Kind).Msg("contact added")
	return dto.NewContactResponse(contact), nil
}

func (s *contactService) Update(ctx context.Context, id uint, payload dto.ContactUpdateRequest, actor Actor) (dto.ContactResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ContactResponse{}, err
	}
	if !actor.IsTeacher() {
		return dto.ContactResponse{}, ErrAccessDenied
	}

	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ContactResponse{}, ErrNotFound
		}
		return dto.ContactResponse{}, err
	}

	if payload.Kind != nil {
		contact.Kind = *payload.Kind
	}
	if payload.Name != nil {
		contact.Name = *payload.Name
	}
	if payload.Email != nil {
		contact.Email = *payload.Email
	}
	if payload.Phone != nil {
		contact.Phone = *payload.Phone
	}
	if payload.Web != nil {
		contact.Web = *payload.Web
	}
	if payload.Address != nil {
		contact.Address = *payload.Address
	}
	if payload.Note != nil {
		contact.Note = *payload.Note
	}

	if err := s.contacts.Update(ctx, &contact); err != nil {
		return dto.ContactResponse{}, err
	}
	return dto.NewContactResponse(contact), nil
}

func (s *contactService) Delete(ctx context.Context, id uint, actor Actor) error {
	if !actor.IsTeacher() {
		return ErrAccessDenied
	}
	if err := s.contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Info().Uint("contact_id", id).Msg("contact removed")
	return nil
}
