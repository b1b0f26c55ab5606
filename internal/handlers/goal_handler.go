package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	var req service.CreateGoalInput
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	goal, err := h.goalService.CreateGoal(userID, req)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

func (h *GoalHandler) ListGoals(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	goals, err := h.goalService.ListGoals(userID)
	if err != nil {
		return httpx.Internal(c, "list_failed")
	}
	return c.JSON(goals)
}

func (h *GoalHandler) GetGoal(c *fiber.Ctx) error {
	goalID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_goal_id", "Invalid goal ID")
	}
	userID := c.Locals("userID").(uint)
	goal, err := h.goalService.GetGoal(goalID, userID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(goal)
}

type ProgressRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

func (h *GoalHandler) AddProgress(c *fiber.Ctx) error {
	goalID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_goal_id", "Invalid goal ID")
	}
	var req ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	goal, err := h.goalService.AddProgress(goalID, userID, req.Amount)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(goal)
}

func (h *GoalHandler) PauseGoal(c *fiber.Ctx) error {
	return h.statusChange(c, h.goalService.PauseGoal)
}

func (h *GoalHandler) ResumeGoal(c *fiber.Ctx) error {
	return h.statusChange(c, h.goalService.ResumeGoal)
}

func (h *GoalHandler) DeleteGoal(c *fiber.Ctx) error {
	goalID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_goal_id", "Invalid goal ID")
	}
	userID := c.Locals("userID").(uint)
	if err := h.goalService.DeleteGoal(goalID, userID); err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Goal deleted"})
}

type MilestoneRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=100"`
	TargetValue int    `json:"targetValue" validate:"required,min=1"`
}

func (h *GoalHandler) AddMilestone(c *fiber.Ctx) error {
	goalID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_goal_id", "Invalid goal ID")
	}
	var req MilestoneRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	milestone, err := h.goalService.AddMilestone(goalID, userID, req.Title, req.TargetValue)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(milestone)
}

func (h *GoalHandler) statusChange(c *fiber.Ctx, op func(goalID, userID uint) (*models.Goal, error)) error {
	goalID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_goal_id", "Invalid goal ID")
	}
	userID := c.Locals("userID").(uint)
	goal, err := op(goalID, userID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(goal)
}
