package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type FriendHandler struct {
	friendService *service.FriendService
}

func NewFriendHandler(friendService *service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

func (h *FriendHandler) SendRequest(c *fiber.Ctx) error {
	toUserID, err := paramUint(c, "userId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	userID := c.Locals("userID").(uint)
	req, err := h.friendService.SendRequest(userID, toUserID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *FriendHandler) AcceptRequest(c *fiber.Ctx) error {
	requestID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.friendService.AcceptRequest(requestID, userID); err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request accepted"})
}

func (h *FriendHandler) RejectRequest(c *fiber.Ctx) error {
	requestID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.friendService.RejectRequest(requestID, userID); err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request rejected"})
}

func (h *FriendHandler) ListPending(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requests, err := h.friendService.ListPending(userID)
	if err != nil {
		return httpx.Internal(c, "list_failed")
	}
	return c.JSON(requests)
}
