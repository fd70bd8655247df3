package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/service"
	"github.com/karierni-denik/denik-api/internal/utils"
)

// AdminAccountHandler wires the admin account management routes.
type AdminAccountHandler struct {
	service service.AccountAdminService
	logger  zerolog.Logger
}

// NewAdminAccountHandler constructs the handler.
func NewAdminAccountHandler(service service.AccountAdminService, logger zerolog.Logger) *AdminAccountHandler {
	return &AdminAccountHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_account_handler").Logger(),
	}
}

// Register attaches account management endpoints to the admin group.
func (h *AdminAccountHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Patch("/:id/role", h.changeRole)
}

func (h *AdminAccountHandler) list(c *fiber.Ctx) error {
	var request dto.AccountListRequest
	if err := c.QueryParser(&request); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query")
	}

	accounts, err := h.service.List(c.Context(), request, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "accounts retrieved", accounts)
}

func (h *AdminAccountHandler) changeRole(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AccountRoleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	account, err := h.service.ChangeRole(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "role updated", account)
}
