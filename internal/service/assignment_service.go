package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

// AssignmentService orchestrates assignment authoring and read views.
type AssignmentService interface {
	ListByClass(ctx context.Context, classID uint, actor Actor) ([]dto.AssignmentListItem, error)
	GetForTeacher(ctx context.Context, id uint, actor Actor) (dto.AssignmentResponse, error)
	GetForStudent(ctx context.Context, id uint, actor Actor) (dto.StudentAssignmentView, error)
	Create(ctx context.Context, classID uint, payload dto.AssignmentCreateRequest, actor Actor) (dto.AssignmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest, actor Actor) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	contents    repository.ContentRepository
	submissions repository.SubmissionRepository
	templates   repository.TemplateRepository
	guard       *AccessGuard
	events      EventPublisher
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignments repository.AssignmentRepository, contents repository.ContentRepository, submissions repository.SubmissionRepository, templates repository.TemplateRepository, guard *AccessGuard, events EventPublisher, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		contents:    contents,
		submissions: submissions,
		templates:   templates,
		guard:       guard,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) ListByClass(ctx context.Context, classID uint, actor Actor) ([]dto.AssignmentListItem, error) {
	if err := s.guard.RequireClassMember(ctx, classID, actor); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	return dto.NewAssignmentListItems(assignments), nil
}

func (s *assignmentService) GetForTeacher(ctx context.Context, id uint, actor Actor) (dto.AssignmentResponse, error) {
	assignment, err := s.guard.RequireAssignmentTeacher(ctx, id, actor)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	content, err := resolveContent(ctx, s.contents, assignment)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, content), nil
}

// GetForStudent returns the assignment as the acting student may see it:
// option correctness and outcome scoring stay hidden until the student has a
// non-draft submission.
func (s *assignmentService) GetForStudent(ctx context.Context, id uint, actor Actor) (dto.StudentAssignmentView, error) {
	assignment, err := s.guard.AssignmentClass(ctx, id)
	if err != nil {
		return dto.StudentAssignmentView{}, err
	}
	if err := s.guard.RequireEnrollment(ctx, assignment.ClassID, actor); err != nil {
		return dto.StudentAssignmentView{}, err
	}

	view := dto.StudentAssignmentView{
		ID:          assignment.ID,
		Title:       assignment.Title,
		Description: assignment.Description,
		DueDate:     assignment.DueDate,
		Kind:        assignment.Kind,
	}

	var submission *models.Submission
	if existing, err := s.submissions.GetByAssignmentAndStudent(ctx, id, actor.ID); err == nil {
		submission = &existing
		submissionView := dto.NewSubmissionView(existing)
		view.Submission = &submissionView
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentAssignmentView{}, err
	}

	if assignment.IsGradable() {
		content, err := resolveContent(ctx, s.contents, assignment)
		if err != nil {
			return dto.StudentAssignmentView{}, err
		}
		revealed := submission != nil && submission.Status != models.SubmissionStatusDraft
		view.Questions = dto.NewQuestionViews(content.Questions, revealed)
		if revealed {
			view.Outcomes = dto.NewCategoryViews(content.Categories)
		}
	}

	return view, nil
}

func (s *assignmentService) Create(ctx context.Context, classID uint, payload dto.AssignmentCreateRequest, actor Actor) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := s.guard.RequireClassTeacher(ctx, classID, actor); err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := s.checkKindPayload(ctx, payload, actor); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		ClassID:     classID,
		Title:       payload.Title,
		Description: payload.Description,
		DueDate:     dueDate,
		Kind:        payload.Kind,
		TemplateID:  payload.TemplateID,
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if hasLocalContent(payload.Kind) {
		content, err := buildContentSet(payload.Questions, payload.Outcomes)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		owner := repository.ContentOwner{AssignmentID: &assignment.ID}
		if err := s.contents.Replace(ctx, owner, content); err != nil {
			return dto.AssignmentResponse{}, err
		}
	}

	if s.events != nil {
		s.events.Publish("assignments.published", map[string]interface{}{
			"assignment_id": assignment.ID,
			"class_id":      classID,
			"title":         assignment.Title,
			"kind":          assignment.Kind,
		})
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Str("kind", assignment.Kind).Msg("assignment created")

	return s.GetForTeacher(ctx, assignment.ID, actor)
}

// Update fully replaces the assignment's metadata and, for locally authored
// gradable kinds, its question bank. Kind and template reference stay fixed
// after creation, and updates must re-send the complete bank.
func (s *assignmentService) Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest, actor Actor) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}
	assignment, err := s.guard.RequireAssignmentTeacher(ctx, id, actor)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := checkUpdateKindPayload(assignment.Kind, payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment.Title = payload.Title
	assignment.Description = payload.Description
	assignment.DueDate = dueDate
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if hasLocalContent(assignment.Kind) {
		content, err := buildContentSet(payload.Questions, payload.Outcomes)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		owner := repository.ContentOwner{AssignmentID: &assignment.ID}
		if err := s.contents.Replace(ctx, owner, content); err != nil {
			return dto.AssignmentResponse{}, err
		}
	}

	return s.GetForTeacher(ctx, id, actor)
}

// checkUpdateKindPayload enforces the same kind/content pairing as creation:
// gradable kinds replace their whole bank on every update, the others carry
// no local content at all.
func checkUpdateKindPayload(kind string, payload dto.AssignmentUpdateRequest) error {
	switch kind {
	case models.AssignmentKindClassic:
		if len(payload.Questions) > 0 || len(payload.Outcomes) > 0 {
			return fmt.Errorf("%w: classic assignments carry no questions", ErrInvalidOperation)
		}
	case models.AssignmentKindTest:
		if len(payload.Questions) == 0 {
			return fmt.Errorf("%w: a test needs at least one question", ErrInvalidOperation)
		}
		if len(payload.Outcomes) > 0 {
			return fmt.Errorf("%w: tests carry no outcome categories", ErrInvalidOperation)
		}
	case models.AssignmentKindOutcome:
		if len(payload.Questions) == 0 || len(payload.Outcomes) == 0 {
			return fmt.Errorf("%w: an outcome quiz needs questions and outcome categories", ErrInvalidOperation)
		}
	case models.AssignmentKindPredefinedTest:
		if len(payload.Questions) > 0 || len(payload.Outcomes) > 0 {
			return fmt.Errorf("%w: predefined tests hold no local questions", ErrInvalidOperation)
		}
	}
	return nil
}

func (s *assignmentService) Delete(ctx context.Context, id uint, actor Actor) error {
	if _, err := s.guard.RequireAssignmentTeacher(ctx, id, actor); err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")
	return nil
}

func (s *assignmentService) checkKindPayload(ctx context.Context, payload dto.AssignmentCreateRequest, actor Actor) error {
	switch payload.Kind {
	case models.AssignmentKindClassic:
		if len(payload.Questions) > 0 || len(payload.Outcomes) > 0 || payload.TemplateID != nil {
			return fmt.Errorf("%w: classic assignments carry no questions", ErrInvalidOperation)
		}
	case models.AssignmentKindTest:
		if len(payload.Questions) == 0 {
			return fmt.Errorf("%w: a test needs at least one question", ErrInvalidOperation)
		}
		if len(payload.Outcomes) > 0 || payload.TemplateID != nil {
			return fmt.Errorf("%w: tests carry no outcome categories or template reference", ErrInvalidOperation)
		}
	case models.AssignmentKindOutcome:
		if len(payload.Questions) == 0 || len(payload.Outcomes) == 0 {
			return fmt.Errorf("%w: an outcome quiz needs questions and outcome categories", ErrInvalidOperation)
		}
		if payload.TemplateID != nil {
			return fmt.Errorf("%w: outcome quizzes carry no template reference", ErrInvalidOperation)
		}
	case models.AssignmentKindPredefinedTest:
		if payload.TemplateID == nil {
			return fmt.Errorf("%w: a predefined test needs a template reference", ErrInvalidOperation)
		}
		if len(payload.Questions) > 0 || len(payload.Outcomes) > 0 {
			return fmt.Errorf("%w: predefined tests hold no local questions", ErrInvalidOperation)
		}
		template, err := s.templates.GetByID(ctx, *payload.TemplateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccessDenied
			}
			return err
		}
		if template.OwnerID != actor.ID && !actor.IsAdmin() {
			return ErrAccessDenied
		}
	}
	return nil
}

func hasLocalContent(kind string) bool {
	return kind == models.AssignmentKindTest || kind == models.AssignmentKindOutcome
}

func parseDueDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due date", ErrInvalidOperation)
	}
	return &parsed, nil
}
