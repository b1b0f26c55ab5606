package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func (h *ScheduleHandler) CreateItem(c *fiber.Ctx) error {
	var req service.ScheduleItemInput
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	item, err := h.scheduleService.CreateItem(userID, req)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// ListItems returns the whole calendar, or a window when from/to query
// params are given as RFC 3339 timestamps.
func (h *ScheduleHandler) ListItems(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr != "" || toStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return httpx.BadRequest(c, "invalid_range", "Invalid from timestamp")
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return httpx.BadRequest(c, "invalid_range", "Invalid to timestamp")
		}
		items, err := h.scheduleService.ListRange(userID, from, to)
		if err != nil {
			return httpx.DomainError(c, err)
		}
		return c.JSON(items)
	}

	items, err := h.scheduleService.ListItems(userID)
	if err != nil {
		return httpx.Internal(c, "list_failed")
	}
	return c.JSON(items)
}

func (h *ScheduleHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_item_id", "Invalid schedule item ID")
	}
	var req service.ScheduleItemInput
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	item, err := h.scheduleService.UpdateItem(itemID, userID, req)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(item)
}

type SetStatusRequest struct {
	Status models.ScheduleStatus `json:"status" validate:"required,oneof=scheduled in-progress completed missed"`
}

func (h *ScheduleHandler) SetStatus(c *fiber.Ctx) error {
	itemID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_item_id", "Invalid schedule item ID")
	}
	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	item, err := h.scheduleService.SetStatus(itemID, userID, req.Status)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(item)
}

func (h *ScheduleHandler) DeleteItem(c *fiber.Ctx) error {
	itemID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_item_id", "Invalid schedule item ID")
	}
	userID := c.Locals("userID").(uint)
	if err := h.scheduleService.DeleteItem(itemID, userID); err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Schedule item deleted"})
}
