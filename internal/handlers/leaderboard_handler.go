package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (h *LeaderboardHandler) GroupLeaderboard(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	entries, err := h.leaderboardService.GroupLeaderboard(groupID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(entries)
}
