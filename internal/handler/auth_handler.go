package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/service"
	"github.com/karierni-denik/denik-api/internal/utils"
)

// AuthHandler exchanges a verified external identity for an API token.
type AuthHandler struct {
	service  service.AuthService
	secret   string
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, secret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{
		service:  service,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the public auth endpoints.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	account, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  float64(account.ID),
		"role": account.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(h.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.secret))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("token signing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "login successful", fiber.Map{
		"token":   token,
		"account": account,
	})
}
