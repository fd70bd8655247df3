package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/service"
	"github.com/karierni-denik/denik-api/internal/utils"
)

// ClassHandler wires class section HTTP routes, including the per-student
// results view teachers use.
type ClassHandler struct {
	service service.ClassService
	results service.ResultsService
	logger  zerolog.Logger
}

// NewClassHandler constructs the handler.
func NewClassHandler(service service.ClassService, results service.ResultsService, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		results: results,
		logger:  logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register attaches class endpoints to the router group. The join endpoint
// takes an extra rate limiter against join-code guessing; the router supplies
// it so tests can omit it.
func (h *ClassHandler) Register(router fiber.Router, joinLimiter fiber.Handler) {
	router.Get("", h.list)
	router.Post("", h.create)
	if joinLimiter != nil {
		router.Post("/join", joinLimiter, h.join)
	} else {
		router.Post("/join", h.join)
	}
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Get("/:id/roster", h.roster)
	router.Post("/:id/teachers", h.addTeacher)
	router.Delete("/:id/teachers/:teacherId", h.removeTeacher)
	router.Get("/:id/students/:studentId/results", h.studentResults)
}

func (h *ClassHandler) list(c *fiber.Ctx) error {
	classes, err := h.service.ListForActor(c.Context(), actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	class, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *ClassHandler) join(c *fiber.Ctx) error {
	var payload dto.ClassJoinRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	class, err := h.service.JoinByCode(c.Context(), payload.Code, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "joined class", class)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	class, err := h.service.Get(c.Context(), id, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class retrieved", class)
}

func (h *ClassHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ClassUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	class, err := h.service.Update(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class updated", class)
}

func (h *ClassHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class deleted", fiber.Map{"id": id})
}

func (h *ClassHandler) roster(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	roster, err := h.service.Roster(c.Context(), id, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "roster retrieved", roster)
}

func (h *ClassHandler) addTeacher(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ClassTeacherRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.AddTeacher(c.Context(), id, payload, actorFromContext(c)); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "teacher added", fiber.Map{"class_id": id, "teacher_id": payload.TeacherID})
}

func (h *ClassHandler) removeTeacher(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	teacherID, err := parseUintParam(c, "teacherId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.RemoveTeacher(c.Context(), id, teacherID, actorFromContext(c)); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "teacher removed", fiber.Map{"class_id": id, "teacher_id": teacherID})
}

func (h *ClassHandler) studentResults(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	results, err := h.results.StudentResults(c.Context(), id, studentID, actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "results retrieved", results)
}
