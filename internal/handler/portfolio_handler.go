package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/karierni-denik/denik-api/internal/service"
	"github.com/karierni-denik/denik-api/internal/utils"
)

// PortfolioHandler wires the student portfolio file routes.
type PortfolioHandler struct {
	service service.PortfolioService
	logger  zerolog.Logger
}

// NewPortfolioHandler constructs the handler.
func NewPortfolioHandler(service service.PortfolioService, logger zerolog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		service: service,
		logger:  logger.With().Str("component", "portfolio_handler").Logger(),
	}
}

// Register attaches portfolio endpoints to the router group.
func (h *PortfolioHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.upload)
	router.Delete("/:id", h.delete)
}

func (h *PortfolioHandler) list(c *fiber.Ctx) error {
	files, err := h.service.List(c.Context(), actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "portfolio retrieved", files)
}

func (h *PortfolioHandler) upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	source, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable file")
	}
	defer source.Close()

	content, err := io.ReadAll(source)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable file")
	}

	file, err := h.service.Upload(c.Context(), fileHeader.Filename, content, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "file uploaded", file)
}

func (h *PortfolioHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "file deleted", fiber.Map{"id": id})
}
