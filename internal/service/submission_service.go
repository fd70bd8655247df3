package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/grading"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/observability"
	"github.com/karierni-denik/denik-api/internal/repository"
)

// SubmissionService records student submissions and runs grading.
type SubmissionService interface {
	Submit(ctx context.Context, assignmentID uint, payload dto.SubmitRequest, actor Actor) (dto.SubmitResponse, error)
	Unsubmit(ctx context.Context, assignmentID uint, actor Actor) error
	Reset(ctx context.Context, submissionID uint, actor Actor) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	contents    repository.ContentRepository
	guard       *AccessGuard
	activity    ActivityRecorder
	cache       *redis.Client
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, contents repository.ContentRepository, guard *AccessGuard, activity ActivityRecorder, cache *redis.Client, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		contents:    contents,
		guard:       guard,
		activity:    activity,
		cache:       cache,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/karierni-denik/denik-api/internal/service/submission"),
		now:         time.Now,
	}
}

// Submit upserts the student's single submission for the assignment,
// replacing all prior answers or attachments, and grades test/outcome kinds
// synchronously.
func (s *submissionService) Submit(ctx context.Context, assignmentID uint, payload dto.SubmitRequest, actor Actor) (dto.SubmitResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit", trace.WithAttributes(
		attribute.Int64("submission.assignment_id", int64(assignmentID)),
		attribute.Int64("submission.student_id", int64(actor.ID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmitResponse{}, err
	}

	assignment, err := s.guard.AssignmentClass(ctx, assignmentID)
	if err != nil {
		span.RecordError(err)
		return dto.SubmitResponse{}, err
	}
	if err := s.guard.RequireEnrollment(ctx, assignment.ClassID, actor); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "access_denied")
		return dto.SubmitResponse{}, err
	}

	status := payload.Status
	if status == "" {
		status = models.SubmissionStatusSubmitted
	}

	submission := models.Submission{
		AssignmentID: assignmentID,
		StudentID:    actor.ID,
		SubmittedAt:  s.now(),
		Status:       status,
	}

	var answers []models.SubmissionAnswer
	var attachments []models.SubmissionAttachment

	effectiveKind := assignment.EffectiveKind()
	span.SetAttributes(attribute.String("submission.kind", effectiveKind))

	if assignment.IsGradable() {
		if len(payload.Attachments) > 0 {
			return dto.SubmitResponse{}, fmt.Errorf("%w: tests and quizzes take answers, not attachments", ErrInvalidOperation)
		}
		for questionID, optionIDs := range payload.Answers {
			for _, optionID := range optionIDs {
				answers = append(answers, models.SubmissionAnswer{QuestionID: questionID, OptionID: optionID})
			}
		}

		if status != models.SubmissionStatusDraft {
			result, err := s.grade(ctx, assignment, effectiveKind, payload.Answers)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "grading_failed")
				return dto.SubmitResponse{}, err
			}
			submission.Result = &result
			submission.Status = models.SubmissionStatusGraded
		}
	} else {
		if len(payload.Answers) > 0 {
			return dto.SubmitResponse{}, fmt.Errorf("%w: classic assignments take attachments, not answers", ErrInvalidOperation)
		}
		for _, attachment := range payload.Attachments {
			attachments = append(attachments, models.SubmissionAttachment{
				Name: attachment.Name,
				URL:  attachment.URL,
				Kind: attachment.Kind,
			})
		}
	}

	if err := s.submissions.Upsert(ctx, &submission, answers, attachments); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert_failed")
		return dto.SubmitResponse{}, err
	}

	s.invalidateResults(ctx, assignment.ClassID, actor.ID)
	observability.Submissions().WithLabelValues(effectiveKind, submission.Status).Inc()

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("assignment_id", assignmentID).
		Str("status", submission.Status).
		Msg("submission recorded")

	return dto.SubmitResponse{
		SubmissionID: submission.ID,
		Status:       submission.Status,
		Result:       submission.Result,
	}, nil
}

func (s *submissionService) grade(ctx context.Context, assignment models.Assignment, effectiveKind string, selected map[uint][]uint) (string, error) {
	start := s.now()
	defer func() {
		observability.GradingLatency().Observe(time.Since(start).Seconds())
	}()

	content, err := resolveContent(ctx, s.contents, assignment)
	if err != nil {
		return "", err
	}

	switch effectiveKind {
	case models.AssignmentKindTest:
		return grading.GradeTest(content.Questions, selected).Display(), nil
	case models.AssignmentKindOutcome:
		return grading.GradeOutcome(content.Categories, content.Questions, selected).Display(), nil
	default:
		return "", fmt.Errorf("%w: kind %q is not gradable", ErrInvalidOperation, effectiveKind)
	}
}

// Unsubmit withdraws a classic submission. Tests and quizzes cannot be
// un-submitted; that is a business rule, not a missing feature.
func (s *submissionService) Unsubmit(ctx context.Context, assignmentID uint, actor Actor) error {
	assignment, err := s.guard.AssignmentClass(ctx, assignmentID)
	if err != nil {
		return err
	}
	if err := s.guard.RequireEnrollment(ctx, assignment.ClassID, actor); err != nil {
		return err
	}

	if assignment.Kind != models.AssignmentKindClassic {
		return fmt.Errorf("%w: tests and quizzes cannot be un-submitted", ErrInvalidOperation)
	}

	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.submissions.Delete(ctx, submission.ID); err != nil {
		return err
	}

	s.invalidateResults(ctx, assignment.ClassID, actor.ID)
	s.logger.Info().Uint("submission_id", submission.ID).Msg("submission withdrawn")
	return nil
}

// Reset hard-deletes a submission so the student can redo the work.
// Teacher-only; works for every assignment kind.
func (s *submissionService) Reset(ctx context.Context, submissionID uint, actor Actor) error {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccessDenied
		}
		return err
	}

	if err := s.guard.RequireClassTeacher(ctx, submission.Assignment.ClassID, actor); err != nil {
		return err
	}

	if err := s.submissions.Delete(ctx, submissionID); err != nil {
		return err
	}

	s.invalidateResults(ctx, submission.Assignment.ClassID, submission.StudentID)

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "submission.reset",
			EntityType: "submission",
			EntityID:   &submissionID,
			Metadata: map[string]interface{}{
				"assignment_id": submission.AssignmentID,
				"student_id":    submission.StudentID,
			},
		})
	}

	s.logger.Info().Uint("submission_id", submissionID).Uint("teacher_id", actor.ID).Msg("submission reset by teacher")
	return nil
}

func (s *submissionService) invalidateResults(ctx context.Context, classID, studentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, resultsCacheKey(classID, studentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate results cache")
	}
}
