package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	var req service.CreateGroupInput
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	userID := c.Locals("userID").(uint)
	group, err := h.groupService.CreateGroup(userID, req)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group.ToResponse())
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	group, err := h.groupService.GetGroup(groupID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(group.ToResponse())
}

// ListActive returns groups with members currently mid-session, for
// the "study now" browse view.
func (h *GroupHandler) ListActive(c *fiber.Ctx) error {
	groups, err := h.groupService.ListActiveGroups(queryInt(c, "limit", 20))
	if err != nil {
		return httpx.Internal(c, "list_failed")
	}
	return c.JSON(toGroupResponses(groups))
}

func (h *GroupHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return httpx.BadRequest(c, "missing_query", "Missing search query")
	}
	groups, err := h.groupService.SearchGroups(query, queryInt(c, "limit", 20))
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(toGroupResponses(groups))
}

func (h *GroupHandler) GetMyGroups(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groups, err := h.groupService.GetUserGroups(userID)
	if err != nil {
		return httpx.Internal(c, "list_failed")
	}
	return c.JSON(toGroupResponses(groups))
}

func (h *GroupHandler) GetGroupMembers(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	members, err := h.groupService.GetGroupMembers(groupID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(members)
}

func (h *GroupHandler) JoinGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	pending, err := h.groupService.JoinGroup(groupID, userID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	if pending {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Join request sent", "pending": true})
	}
	return c.JSON(fiber.Map{"message": "Joined group successfully", "pending": false})
}

func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.LeaveGroup(groupID, userID); err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left group successfully"})
}

func (h *GroupHandler) RemoveParticipant(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	targetID, err := paramUint(c, "userId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.RemoveParticipant(groupID, targetID, userID); err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Participant removed"})
}

func (h *GroupHandler) ListJoinRequests(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	requests, err := h.groupService.ListJoinRequests(groupID, userID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(requests)
}

func (h *GroupHandler) ApproveJoinRequest(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	requestID, err := paramUint(c, "requestId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.ApproveJoinRequest(groupID, requestID, userID); err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Request approved"})
}

func (h *GroupHandler) RejectJoinRequest(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	requestID, err := paramUint(c, "requestId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.RejectJoinRequest(groupID, requestID, userID); err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Request rejected"})
}

func toGroupResponses(groups []models.Group) []models.GroupResponse {
	out := make([]models.GroupResponse, len(groups))
	for i := range groups {
		out[i] = groups[i].ToResponse()
	}
	return out
}
