package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type PostMessageRequest struct {
	ClientID string `json:"clientId" validate:"omitempty,max=64"`
	Content  string `json:"content" validate:"required"`
}

func (h *MessageHandler) PostGroupMessage(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	var req PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	message, err := h.messageService.PostGroupMessage(groupID, userID, req.ClientID, req.Content)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

func (h *MessageHandler) GetGroupMessages(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	cursor := uint(queryInt(c, "cursor", 0))
	limit := queryInt(c, "limit", 50)

	messages, err := h.messageService.GetGroupMessages(groupID, userID, cursor, limit)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(messages)
}

type MarkReadRequest struct {
	LastReadMessageID uint `json:"lastReadMessageId" validate:"required"`
}

func (h *MessageHandler) MarkGroupRead(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	userID := c.Locals("userID").(uint)
	if err := h.messageService.MarkGroupRead(groupID, userID, req.LastReadMessageID); err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Read state updated"})
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	count, err := h.messageService.UnreadCount(groupID, userID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

func (h *MessageHandler) SendDirectMessage(c *fiber.Ctx) error {
	recipientID, err := paramUint(c, "userId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}
	var req PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	message, err := h.messageService.SendDirectMessage(userID, recipientID, req.ClientID, req.Content)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	otherID, err := paramUint(c, "userId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	userID := c.Locals("userID").(uint)
	messages, err := h.messageService.GetConversation(userID, otherID, queryInt(c, "limit", 50))
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(messages)
}
