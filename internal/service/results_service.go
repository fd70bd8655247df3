package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/grading"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

func resultsCacheKey(classID, studentID uint) string {
	return fmt.Sprintf("results:class:%d:student:%d", classID, studentID)
}

// ResultsService reconstructs grading detail for teacher review. Reports
// are re-derived from stored answers and the currently effective question
// bank, so template edits show up without touching submissions.
type ResultsService interface {
	StudentResults(ctx context.Context, classID, studentID uint, actor Actor) (dto.StudentResultsResponse, error)
}

type resultsService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	contents    repository.ContentRepository
	accounts    repository.AccountRepository
	guard       *AccessGuard
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewResultsService constructs a ResultsService instance.
func NewResultsService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, contents repository.ContentRepository, accounts repository.AccountRepository, guard *AccessGuard, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) ResultsService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &resultsService{
		assignments: assignments,
		submissions: submissions,
		contents:    contents,
		accounts:    accounts,
		guard:       guard,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "results_service").Logger(),
	}
}

func (s *resultsService) StudentResults(ctx context.Context, classID, studentID uint, actor Actor) (dto.StudentResultsResponse, error) {
	if err := s.guard.RequireClassTeacher(ctx, classID, actor); err != nil {
		return dto.StudentResultsResponse{}, err
	}
	enrolled, err := s.guard.classes.IsEnrolled(ctx, classID, studentID)
	if err != nil {
		return dto.StudentResultsResponse{}, err
	}
	if !enrolled {
		return dto.StudentResultsResponse{}, ErrNotFound
	}

	cacheKey := resultsCacheKey(classID, studentID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentResultsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("results cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read results cache")
		}
	}

	student, err := s.accounts.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResultsResponse{}, ErrNotFound
		}
		return dto.StudentResultsResponse{}, err
	}

	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return dto.StudentResultsResponse{}, err
	}

	assignmentIDs := make([]uint, 0, len(assignments))
	for _, assignment := range assignments {
		assignmentIDs = append(assignmentIDs, assignment.ID)
	}
	submissions, err := s.submissions.ListForStudent(ctx, studentID, assignmentIDs)
	if err != nil {
		return dto.StudentResultsResponse{}, err
	}
	byAssignment := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		byAssignment[submission.AssignmentID] = submission
	}

	response := dto.StudentResultsResponse{
		Student: dto.NewAccountResponse(student),
		Results: make([]dto.AssignmentResult, 0, len(assignments)),
	}

	for _, assignment := range assignments {
		result := dto.AssignmentResult{
			Assignment: dto.AssignmentListItem{
				ID:      assignment.ID,
				Title:   assignment.Title,
				DueDate: assignment.DueDate,
				Kind:    assignment.Kind,
			},
		}

		submission, submitted := byAssignment[assignment.ID]
		if submitted {
			view := dto.NewSubmissionView(submission)
			result.Submission = &view

			if assignment.IsGradable() && submission.Status != models.SubmissionStatusDraft {
				content, err := resolveContent(ctx, s.contents, assignment)
				if err != nil {
					return dto.StudentResultsResponse{}, err
				}
				selected := selectedAnswers(submission.Answers)
				switch assignment.EffectiveKind() {
				case models.AssignmentKindTest:
					report := grading.GradeTest(content.Questions, selected)
					result.Test = &report
				case models.AssignmentKindOutcome:
					report := grading.GradeOutcome(content.Categories, content.Questions, selected)
					result.Outcome = &report
				}
				result.Questions = dto.NewQuestionViews(content.Questions, true)
			}
		}

		response.Results = append(response.Results, result)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store results cache")
			}
		}
	}

	return response, nil
}
