package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/service"
	"github.com/karierni-denik/denik-api/internal/utils"
)

// AdminActivityHandler exposes the audit log to administrators.
type AdminActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewAdminActivityHandler constructs the handler.
func NewAdminActivityHandler(service service.ActivityService, logger zerolog.Logger) *AdminActivityHandler {
	return &AdminActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_activity_handler").Logger(),
	}
}

// Register attaches the audit listing endpoint to the admin group.
func (h *AdminActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AdminActivityHandler) list(c *fiber.Ctx) error {
	var request dto.ActivityListRequest
	if err := c.QueryParser(&request); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query")
	}

	entries, err := h.service.List(c.Context(), request)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "activity retrieved", entries)
}
