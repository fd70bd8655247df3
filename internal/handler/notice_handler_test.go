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

type mockNoticeService struct {
	listResponse dto.NoticeListResponse
	created      dto.NoticeResponse
	err          error
	lastActor    service.Actor
}

func (m *mockNoticeService) List(_ context.Context, _, _ int) (dto.NoticeListResponse, error) {
	if m.err != nil {
		return dto.NoticeListResponse{}, m.err
	}
	return m.listResponse, nil
}

func (m *mockNoticeService) Create(_ context.Context, _ dto.NoticeCreateRequest, actor service.Actor) (dto.NoticeResponse, error) {
	m.lastActor = actor
	if m.err != nil {
		return dto.NoticeResponse{}, m.err
	}
	return m.created, nil
}

func (m *mockNoticeService) Update(_ context.Context, _ uint, _ dto.NoticeUpdateRequest, actor service.Actor) (dto.NoticeResponse, error) {
	m.lastActor = actor
	if m.err != nil {
		return dto.NoticeResponse{}, m.err
	}
	return m.created, nil
}

func (m *mockNoticeService) Delete(_ context.Context, _ uint, actor service.Actor) error {
	m.lastActor = actor
	return m.err
}

func noticeApp(svc service.NoticeService, userID uint, role string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/notices", func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	})
	handler.NewNoticeHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestNoticeHandler_CreateSuccess(t *testing.T) {
	svc := &mockNoticeService{created: dto.NoticeResponse{ID: 1, Title: "Exkurze"}}
	app := noticeApp(svc, 1, "teacher")

	body, err := json.Marshal(dto.NoticeCreateRequest{Title: "Exkurze", Body: "Sraz v 8:00"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool               `json:"success"`
		Data    dto.NoticeResponse `json:"data"`
		Message string             `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "notice posted", response.Message)
	require.Equal(t, uint(1), response.Data.ID)
	require.Equal(t, service.Actor{ID: 1, Role: "teacher"}, svc.lastActor)
}

func TestNoticeHandler_CreateForbiddenForStudents(t *testing.T) {
	svc := &mockNoticeService{err: service.ErrAccessDenied}
	app := noticeApp(svc, 2, "student")

	body, err := json.Marshal(dto.NoticeCreateRequest{Title: "X", Body: "Y"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestNoticeHandler_ListRejectsBadPaging(t *testing.T) {
	svc := &mockNoticeService{}
	app := noticeApp(svc, 2, "student")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notices?page=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
