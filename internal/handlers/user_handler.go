package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	targetID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}
	user, err := h.userService.GetProfile(targetID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(user.ToResponse())
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	user, err := h.userService.UpdateProfile(userID, req)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(user.ToResponse())
}

func (h *UserHandler) SearchUsers(c *fiber.Ctx) error {
	users, err := h.userService.SearchUsers(c.Query("q"), queryInt(c, "limit", 20))
	if err != nil {
		return httpx.DomainError(c, err)
	}

	out := make([]models.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return c.JSON(out)
}

func (h *UserHandler) Stats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	stats, err := h.userService.Stats(userID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(stats)
}

func (h *UserHandler) RecentSessions(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	sessions, err := h.userService.RecentSessions(userID, queryInt(c, "limit", 20))
	if err != nil {
		return httpx.Internal(c, "list_failed")
	}
	return c.JSON(sessions)
}
