package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type StartSessionRequest struct {
	Mode models.TimerMode `json:"mode" validate:"required,oneof=pomodoro deep-focus sprint"`
}

func (h *SessionHandler) Start(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	status, err := h.sessionService.StartSession(groupID, userID, req.Mode)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(status)
}

func (h *SessionHandler) Pause(c *fiber.Ctx) error {
	return h.transition(c, h.sessionService.PauseSession)
}

func (h *SessionHandler) Resume(c *fiber.Ctx) error {
	return h.transition(c, h.sessionService.ResumeSession)
}

func (h *SessionHandler) Status(c *fiber.Ctx) error {
	return h.transition(c, h.sessionService.Status)
}

func (h *SessionHandler) Stop(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	session, err := h.sessionService.StopSession(groupID, userID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(session)
}

func (h *SessionHandler) transition(c *fiber.Ctx, op func(groupID, userID uint) (*service.SessionStatus, error)) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	status, err := op(groupID, userID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(status)
}
