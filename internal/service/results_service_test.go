package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
)

type resultsFixture struct {
	*submissionFixture
	accounts *memoryAccountRepo
	results  ResultsService
	cache    *redis.Client
}

func newResultsFixture(t *testing.T) *resultsFixture {
	t.Helper()

	base := newSubmissionFixture(t)
	accounts := newMemoryAccountRepo()
	teacher := accounts.add(models.RoleTeacher) // ID 1, matches base fixture
	student := accounts.add(models.RoleStudent) // ID 2
	require.Equal(t, base.teacher.ID, teacher.ID)
	require.Equal(t, base.student.ID, student.ID)

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	guard := NewAccessGuard(base.classes, base.assignments)
	results := NewResultsService(base.assignments, base.submissions, base.contents, accounts, guard, cache, time.Minute, testLogger())

	// Rebuild the submission service on the same cache so submits invalidate
	// the results view.
	validate := validator.New(validator.WithRequiredStructEnabled())
	base.svc = NewSubmissionService(base.submissions, base.contents, guard, base.recorder, cache, validate, testLogger())

	return &resultsFixture{submissionFixture: base, accounts: accounts, results: results, cache: cache}
}

func TestResultsServiceTeacherOnly(t *testing.T) {
	f := newResultsFixture(t)

	_, err := f.results.StudentResults(context.Background(), f.classID, f.student.ID, f.student)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestResultsServiceUnknownStudentNotFound(t *testing.T) {
	f := newResultsFixture(t)

	_, err := f.results.StudentResults(context.Background(), f.classID, 99, f.teacher)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResultsServiceRederivesReports(t *testing.T) {
	f := newResultsFixture(t)
	assignmentID, options := f.addTestAssignment(t)

	answers := make(map[uint][]uint)
	first := true
	for questionID, pair := range options {
		if first {
			answers[questionID] = []uint{pair[0]}
			first = false
		} else {
			answers[questionID] = []uint{pair[1]}
		}
	}
	_, err := f.svc.Submit(context.Background(), assignmentID, dto.SubmitRequest{Answers: answers}, f.student)
	require.NoError(t, err)

	response, err := f.results.StudentResults(context.Background(), f.classID, f.student.ID, f.teacher)
	require.NoError(t, err)
	require.Len(t, response.Results, 1)

	result := response.Results[0]
	require.NotNil(t, result.Submission)
	require.NotNil(t, result.Test)
	require.Equal(t, "50% (1/2)", result.Test.Display())
	require.Len(t, result.Questions, 2)
	for _, question := range result.Questions {
		for _, option := range question.Options {
			require.NotNil(t, option.IsCorrect)
		}
	}
}

func TestResultsServiceCacheInvalidatedOnResubmit(t *testing.T) {
	f := newResultsFixture(t)
	assignmentID, options := f.addTestAssignment(t)

	wrong := make(map[uint][]uint)
	right := make(map[uint][]uint)
	for questionID, pair := range options {
		wrong[questionID] = []uint{pair[1]}
		right[questionID] = []uint{pair[0]}
	}

	_, err := f.svc.Submit(context.Background(), assignmentID, dto.SubmitRequest{Answers: wrong}, f.student)
	require.NoError(t, err)

	stale, err := f.results.StudentResults(context.Background(), f.classID, f.student.ID, f.teacher)
	require.NoError(t, err)
	require.Equal(t, "0% (0/2)", stale.Results[0].Test.Display())

	_, err = f.svc.Submit(context.Background(), assignmentID, dto.SubmitRequest{Answers: right}, f.student)
	require.NoError(t, err)

	fresh, err := f.results.StudentResults(context.Background(), f.classID, f.student.ID, f.teacher)
	require.NoError(t, err)
	require.Equal(t, "100% (2/2)", fresh.Results[0].Test.Display())
}

func TestResultsServiceSkipsDraftGrading(t *testing.T) {
	f := newResultsFixture(t)
	assignmentID, options := f.addTestAssignment(t)

	answers := make(map[uint][]uint)
	for questionID, pair := range options {
		answers[questionID] = []uint{pair[0]}
	}
	_, err := f.svc.Submit(context.Background(), assignmentID, dto.SubmitRequest{Answers: answers, Status: models.SubmissionStatusDraft}, f.student)
	require.NoError(t, err)

	response, err := f.results.StudentResults(context.Background(), f.classID, f.student.ID, f.teacher)
	require.NoError(t, err)
	require.Len(t, response.Results, 1)
	require.NotNil(t, response.Results[0].Submission)
	require.Nil(t, response.Results[0].Test)
}
