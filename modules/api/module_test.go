package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := requestLoggerConfig()
	cfg.Output = &buf

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(logger.New(cfg))
	app.Get("/tasks", func(c *fiber.Ctx) error {
		return c.JSON([]string{})
	})

	t.Run("logs plain requests", func(t *testing.T) {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tasks", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if !strings.Contains(buf.String(), "/tasks") {
			t.Errorf("request was not logged: %q", buf.String())
		}
	})

	t.Run("skips websocket upgrades", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Upgrade", "websocket")
		if _, err := app.Test(req); err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("upgrade request was logged: %q", buf.String())
		}
	})
}
