package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
)

func newTemplateFixture() (*memoryTemplateRepo, *memoryContentRepo, *memoryAssignmentRepo, TemplateService) {
	templates := newMemoryTemplateRepo()
	contents := newMemoryContentRepo()
	assignments := newMemoryAssignmentRepo(templates)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewTemplateService(templates, contents, assignments, validate, testLogger())
	return templates, contents, assignments, svc
}

func TestTemplateServiceCreateAndGet(t *testing.T) {
	_, _, _, svc := newTemplateFixture()
	teacher := Actor{ID: 1, Role: models.RoleTeacher}

	created, err := svc.Create(context.Background(), dto.TemplateCreateRequest{
		Name:      "Holland quiz",
		Kind:      models.TemplateKindTest,
		Questions: testQuestionPayload(),
	}, teacher)
	require.NoError(t, err)
	require.Equal(t, "Holland quiz", created.Name)
	require.Len(t, created.Questions, 1)
}

func TestTemplateServiceRejectsStudents(t *testing.T) {
	_, _, _, svc := newTemplateFixture()
	student := Actor{ID: 2, Role: models.RoleStudent}

	_, err := svc.Create(context.Background(), dto.TemplateCreateRequest{
		Name:      "Nope",
		Kind:      models.TemplateKindTest,
		Questions: testQuestionPayload(),
	}, student)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.List(context.Background(), student)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestTemplateServiceForeignTemplateHidden(t *testing.T) {
	templates, _, _, svc := newTemplateFixture()

	foreign := models.Template{OwnerID: 42, Name: "Theirs", Kind: models.TemplateKindTest}
	require.NoError(t, templates.Create(context.Background(), &foreign))

	_, err := svc.Get(context.Background(), foreign.ID, Actor{ID: 1, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrAccessDenied)

	// Admins see everything.
	_, err = svc.Get(context.Background(), foreign.ID, Actor{ID: 7, Role: models.RoleAdmin})
	require.NoError(t, err)
}

func TestTemplateServiceUpdateReplacesContent(t *testing.T) {
	_, _, _, svc := newTemplateFixture()
	teacher := Actor{ID: 1, Role: models.RoleTeacher}

	created, err := svc.Create(context.Background(), dto.TemplateCreateRequest{
		Name:      "Quiz",
		Kind:      models.TemplateKindTest,
		Questions: testQuestionPayload(),
	}, teacher)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.TemplateUpdateRequest{
		Name: "Quiz v2",
		Questions: []dto.QuestionPayload{
			{Text: "Q1", Options: []dto.OptionPayload{{Text: "a", IsCorrect: true}, {Text: "b"}}},
			{Text: "Q2", Options: []dto.OptionPayload{{Text: "c", IsCorrect: true}, {Text: "d"}}},
		},
	}, teacher)
	require.NoError(t, err)
	require.Equal(t, "Quiz v2", updated.Name)
	require.Len(t, updated.Questions, 2)
}

func TestTemplateServiceDeleteBlockedWhileReferenced(t *testing.T) {
	templates, _, assignments, svc := newTemplateFixture()
	teacher := Actor{ID: 1, Role: models.RoleTeacher}

	created, err := svc.Create(context.Background(), dto.TemplateCreateRequest{
		Name:      "Quiz",
		Kind:      models.TemplateKindTest,
		Questions: testQuestionPayload(),
	}, teacher)
	require.NoError(t, err)

	assignment := models.Assignment{ClassID: 1, Title: "Uses template", Kind: models.AssignmentKindPredefinedTest, TemplateID: &created.ID}
	require.NoError(t, assignments.Create(context.Background(), &assignment))

	err = svc.Delete(context.Background(), created.ID, teacher)
	require.ErrorIs(t, err, ErrInvalidOperation)

	require.NoError(t, assignments.Delete(context.Background(), assignment.ID))
	require.NoError(t, svc.Delete(context.Background(), created.ID, teacher))

	_, err = templates.GetByID(context.Background(), created.ID)
	require.Error(t, err)
}

func TestTemplateServiceImport(t *testing.T) {
	_, _, _, svc := newTemplateFixture()
	teacher := Actor{ID: 1, Role: models.RoleTeacher}

	valid := []byte(`{
		"name": "Imported quiz",
		"kind": "outcome",
		"outcomes": ["Craft", "Science"],
		"questions": [{
			"text": "Pick one",
			"options": [
				{"text": "build", "outcome_points": [{"category": 0, "points": 3}]},
				{"text": "measure", "outcome_points": [{"category": 1, "points": 2}]}
			]
		}]
	}`)

	created, err := svc.Import(context.Background(), valid, teacher)
	require.NoError(t, err)
	require.Equal(t, "Imported quiz", created.Name)
	require.Len(t, created.Outcomes, 2)
}

func TestTemplateServiceImportRejectsMalformedDocuments(t *testing.T) {
	_, _, _, svc := newTemplateFixture()
	teacher := Actor{ID: 1, Role: models.RoleTeacher}

	cases := map[string][]byte{
		"not json":        []byte(`{"name": `),
		"missing fields":  []byte(`{"name": "x"}`),
		"bad kind":        []byte(`{"name": "x", "kind": "essay", "questions": [{"text": "q", "options": [{"text": "a"}]}]}`),
		"empty questions": []byte(`{"name": "x", "kind": "test", "questions": []}`),
		"unknown field":   []byte(`{"name": "x", "kind": "test", "difficulty": 3, "questions": [{"text": "q", "options": [{"text": "a"}]}]}`),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Import(context.Background(), raw, teacher)
			require.ErrorIs(t, err, ErrInvalidOperation)
		})
	}
}

func TestTemplateServiceImportOutOfRangeCategory(t *testing.T) {
	_, _, _, svc := newTemplateFixture()
	teacher := Actor{ID: 1, Role: models.RoleTeacher}

	raw := []byte(`{
		"name": "Broken",
		"kind": "outcome",
		"outcomes": ["Only one"],
		"questions": [{
			"text": "Pick",
			"options": [{"text": "a", "outcome_points": [{"category": 5, "points": 1}]}]
		}]
	}`)

	_, err := svc.Import(context.Background(), raw, teacher)
	require.ErrorIs(t, err, ErrInvalidOperation)
}
