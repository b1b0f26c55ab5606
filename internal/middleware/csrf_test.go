package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newCSRFApp(t *testing.T) *fiber.App {
	t.Setenv("CSRF_MODE", "token")
	t.Setenv("ALLOWED_ORIGINS", "https://kiitstudy.app")

	app := fiber.New()
	app.Post("/mutate", CSRFRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/read", CSRFRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestCSRFRequired(t *testing.T) {
	app := newCSRFApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		setup  func(r *http.Request)
		status int
	}{
		{"no origin skips the check", "POST", "/mutate", func(r *http.Request) {}, fiber.StatusOK},
		{"reads are exempt", "GET", "/read", func(r *http.Request) {
			r.Header.Set("Origin", "https://kiitstudy.app")
		}, fiber.StatusOK},
		{"missing token", "POST", "/mutate", func(r *http.Request) {
			r.Header.Set("Origin", "https://kiitstudy.app")
		}, fiber.StatusForbidden},
		{"matching token", "POST", "/mutate", func(r *http.Request) {
			r.Header.Set("Origin", "https://kiitstudy.app")
			r.AddCookie(&http.Cookie{Name: "ks_csrf", Value: "tok-1"})
			r.Header.Set("X-KS-CSRF", "tok-1")
		}, fiber.StatusOK},
		{"mismatched token", "POST", "/mutate", func(r *http.Request) {
			r.Header.Set("Origin", "https://kiitstudy.app")
			r.AddCookie(&http.Cookie{Name: "ks_csrf", Value: "tok-1"})
			r.Header.Set("X-KS-CSRF", "tok-2")
		}, fiber.StatusForbidden},
		{"disallowed origin", "POST", "/mutate", func(r *http.Request) {
			r.Header.Set("Origin", "https://evil.example")
			r.AddCookie(&http.Cookie{Name: "ks_csrf", Value: "tok-1"})
			r.Header.Set("X-KS-CSRF", "tok-1")
		}, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			tt.setup(req)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestCSRFModeOff(t *testing.T) {
	t.Setenv("CSRF_MODE", "off")
	app := fiber.New()
	app.Post("/mutate", CSRFRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/mutate", nil)
	req.Header.Set("Origin", "https://anything.example")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200 with checks disabled", resp.StatusCode)
	}
}
