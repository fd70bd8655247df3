package service

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

//go:embed template_schema.json
var templateSchemaJSON []byte

// TemplateService manages reusable question bank templates. Templates are
// owned by a single teacher; assignments of kind predefined_test resolve
// their content through one at read and grade time, so an update here is
// visible to every referencing assignment immediately.
type TemplateService interface {
	List(ctx context.Context, actor Actor) ([]dto.TemplateListItem, error)
	Get(ctx context.Context, id uint, actor Actor) (dto.TemplateResponse, error)
	Create(ctx context.Context, payload dto.TemplateCreateRequest, actor Actor) (dto.TemplateResponse, error)
	Update(ctx context.Context, id uint, payload dto.TemplateUpdateRequest, actor Actor) (dto.TemplateResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	Import(ctx context.Context, raw []byte, actor Actor) (dto.TemplateResponse, error)
}

type templateService struct {
	templates   repository.TemplateRepository
	contents    repository.ContentRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	schema      *jsonschema.Schema
	logger      zerolog.Logger
}

// NewTemplateService constructs a TemplateService instance. It panics when
// the embedded import schema fails to compile, which can only happen if the
// binary itself is broken.
func NewTemplateService(templates repository.TemplateRepository, contents repository.ContentRepository, assignments repository.AssignmentRepository, validate *validator.Validate, logger zerolog.Logger) TemplateService {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("template.schema.json", bytes.NewReader(templateSchemaJSON)); err != nil {
		panic(fmt.Sprintf("template schema resource: %v", err))
	}
	schema, err := compiler.Compile("template.schema.json")
	if err != nil {
		panic(fmt.Sprintf("template schema compile: %v", err))
	}
	return &templateService{
		templates:   templates,
		contents:    contents,
		assignments: assignments,
		validator:   validate,
		schema:      schema,
		logger:      logger.With().Str("component", "template_service").Logger(),
	}
}

func (s *templateService) List(ctx context.Context, actor Actor) ([]dto.TemplateListItem, error) {
	if !actor.IsTeacher() {
		return nil, ErrAccessDenied
	}
	templates, err := s.templates.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewTemplateListItems(templates), nil
}

func (s *templateService) Get(ctx context.Context, id uint, actor Actor) (dto.TemplateResponse, error) {
	template, err := s.requireOwned(ctx, id, actor)
	if err != nil {
		return dto.TemplateResponse{}, err
	}
	content, err := s.contents.Load(ctx, repository.ContentOwner{TemplateID: &template.ID})
	if err != nil {
		return dto.TemplateResponse{}, err
	}
	return dto.NewTemplateResponse(template, content), nil
}

func (s *templateService) Create(ctx context.Context, payload dto.TemplateCreateRequest, actor Actor) (dto.TemplateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TemplateResponse{}, err
	}
	if !actor.IsTeacher() {
		return dto.TemplateResponse{}, ErrAccessDenied
	}
	if err := checkTemplateKindPayload(payload.Kind, payload.Outcomes); err != nil {
		return dto.TemplateResponse{}, err
	}

	content, err := buildContentSet(payload.Questions, payload.Outcomes)
	if err != nil {
		return dto.TemplateResponse{}, err
	}

	template := models.Template{
		OwnerID:     actor.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Kind:        payload.Kind,
	}
	if err := s.templates.Create(ctx, &template); err != nil {
		return dto.TemplateResponse{}, err
	}
	if err := s.contents.Replace(ctx, repository.ContentOwner{TemplateID: &template.ID}, content); err != nil {
		return dto.TemplateResponse{}, err
	}

	s.logger.Info().Uint("template_id", template.ID).Str("kind", template.Kind).Msg("template created")
	return s.Get(ctx, template.ID, actor)
}

// Update fully replaces the template's metadata and question bank. The kind
// stays fixed after creation.
func (s *templateService) Update(ctx context.Context, id uint, payload dto.TemplateUpdateRequest, actor Actor) (dto.TemplateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TemplateResponse{}, err
	}
	template, err := s.requireOwned(ctx, id, actor)
	if err != nil {
		return dto.TemplateResponse{}, err
	}
	if err := checkTemplateKindPayload(template.Kind, payload.Outcomes); err != nil {
		return dto.TemplateResponse{}, err
	}

	content, err := buildContentSet(payload.Questions, payload.Outcomes)
	if err != nil {
		return dto.TemplateResponse{}, err
	}

	template.Name = payload.Name
	template.Description = payload.Description
	if err := s.templates.Update(ctx, &template); err != nil {
		return dto.TemplateResponse{}, err
	}
	if err := s.contents.Replace(ctx, repository.ContentOwner{TemplateID: &template.ID}, content); err != nil {
		return dto.TemplateResponse{}, err
	}

	return s.Get(ctx, id, actor)
}

// Delete refuses while any assignment still references the template;
// deleting it would silently empty those assignments.
func (s *templateService) Delete(ctx context.Context, id uint, actor Actor) error {
	template, err := s.requireOwned(ctx, id, actor)
	if err != nil {
		return err
	}

	referenced, err := s.assignments.CountByTemplate(ctx, id)
	if err != nil {
		return err
	}
	if referenced > 0 {
		return fmt.Errorf("%w: %d assignments still reference this template", ErrInvalidOperation, referenced)
	}

	if err := s.templates.Delete(ctx, template.ID); err != nil {
		return err
	}
	s.logger.Info().Uint("template_id", id).Msg("template deleted")
	return nil
}

// Import validates an exported template document against the embedded JSON
// Schema before handing it to Create, so malformed files fail with a clear
// error instead of a half-written template.
func (s *templateService) Import(ctx context.Context, raw []byte, actor Actor) (dto.TemplateResponse, error) {
	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return dto.TemplateResponse{}, fmt.Errorf("%w: not valid JSON", ErrInvalidOperation)
	}
	if err := s.schema.Validate(document); err != nil {
		return dto.TemplateResponse{}, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}

	var payload dto.TemplateCreateRequest
	if err := json.Unmarshal(raw, &payload); err != nil {
		return dto.TemplateResponse{}, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	return s.Create(ctx, payload, actor)
}

func (s *templateService) requireOwned(ctx context.Context, id uint, actor Actor) (models.Template, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Template{}, ErrAccessDenied
		}
		return models.Template{}, err
	}
	if template.OwnerID != actor.ID && !actor.IsAdmin() {
		return models.Template{}, ErrAccessDenied
	}
	return template, nil
}

func checkTemplateKindPayload(kind string, outcomes []string) error {
	switch kind {
	case models.TemplateKindTest:
		if len(outcomes) > 0 {
			return fmt.Errorf("%w: test templates carry no outcome categories", ErrInvalidOperation)
		}
	case models.TemplateKindOutcome:
		if len(outcomes) == 0 {
			return fmt.Errorf("%w: an outcome template needs outcome categories", ErrInvalidOperation)
		}
	}
	return nil
}
