package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Symmetry7/KIITstudy/internal/httpx"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	user, err := h.authService.Register(req)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_failed", err.Error())
	}

	user, tokens, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_credentials", "Invalid email or password")
	}
	return c.JSON(fiber.Map{
		"user":   user.ToResponse(),
		"tokens": tokens,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.RefreshToken == "" {
		return httpx.BadRequest(c, "missing_refresh_token", "Missing refresh token")
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_refresh_token", "Invalid or expired refresh token")
	}
	return c.JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := h.authService.Logout(req.RefreshToken); err != nil {
		return httpx.Internal(c, "logout_failed")
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// CSRF issues a double-submit token. The cookie is readable by the
// browser client, which echoes it in X-KS-CSRF on mutating requests.
func (h *AuthHandler) CSRF(c *fiber.Ctx) error {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return httpx.Internal(c, "csrf_token_failed")
	}
	token := hex.EncodeToString(buf)

	c.Cookie(&fiber.Cookie{
		Name:     "ks_csrf",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   true,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"csrfToken": token})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_access_token", "Missing access token")
	}
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		return httpx.DomainError(c, err)
	}
	return c.JSON(user.ToResponse())
}
