package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/handler"
	"github.com/karierni-denik/denik-api/internal/service"
)

type mockClassService struct {
	class dto.ClassResponse
	err   error
}

func (m *mockClassService) ListForActor(context.Context, service.Actor) ([]dto.ClassResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.ClassResponse{m.class}, nil
}

func (m *mockClassService) Get(context.Context, uint, service.Actor) (dto.ClassResponse, error) {
	return m.class, m.err
}

func (m *mockClassService) Roster(context.Context, uint, service.Actor) (dto.ClassRosterResponse, error) {
	return dto.ClassRosterResponse{}, m.err
}

func (m *mockClassService) Create(context.Context, dto.ClassCreateRequest, service.Actor) (dto.ClassResponse, error) {
	return m.class, m.err
}

func (m *mockClassService) Update(context.Context, uint, dto.ClassUpdateRequest, service.Actor) (dto.ClassResponse, error) {
	return m.class, m.err
}

func (m *mockClassService) Delete(context.Context, uint, service.Actor) error {
	return m.err
}

func (m *mockClassService) JoinByCode(context.Context, string, service.Actor) (dto.ClassResponse, error) {
	return m.class, m.err
}

func (m *mockClassService) AddTeacher(context.Context, uint, dto.ClassTeacherRequest, service.Actor) error {
	return m.err
}

func (m *mockClassService) RemoveTeacher(context.Context, uint, uint, service.Actor) error {
	return m.err
}

type mockResultsService struct {
	response dto.StudentResultsResponse
	err      error
}

func (m *mockResultsService) StudentResults(context.Context, uint, uint, service.Actor) (dto.StudentResultsResponse, error) {
	return m.response, m.err
}

func classApp(classes service.ClassService, results service.ResultsService, role string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/classes", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		c.Locals("user_role", role)
		return c.Next()
	})
	handler.NewClassHandler(classes, results, zerolog.New(io.Discard)).Register(group, nil)
	return app
}

func TestClassHandler_JoinConflictMapsTo409(t *testing.T) {
	svc := &mockClassService{err: service.ErrAlreadyEnrolled}
	app := classApp(svc, &mockResultsService{}, "student")

	body, err := json.Marshal(dto.ClassJoinRequest{Code: "ABC1234"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classes/join", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestClassHandler_GetHidesMissingClasses(t *testing.T) {
	svc := &mockClassService{err: service.ErrAccessDenied}
	app := classApp(svc, &mockResultsService{}, "student")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classes/99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestClassHandler_InvalidIdentifierRejected(t *testing.T) {
	app := classApp(&mockClassService{}, &mockResultsService{}, "teacher")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classes/not-a-number", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestClassHandler_StudentResults(t *testing.T) {
	results := &mockResultsService{response: dto.StudentResultsResponse{Student: dto.AccountResponse{ID: 8}}}
	app := classApp(&mockClassService{}, results, "teacher")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classes/3/students/8/results", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                       `json:"success"`
		Data    dto.StudentResultsResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, uint(8), response.Data.Student.ID)
}
