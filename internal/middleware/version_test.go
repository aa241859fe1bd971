package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sjafferali/meditrack/internal/middleware"
)

// TestVersionMiddleware tests defaulting and alias normalization
func TestVersionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.VersionMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("apiVersion").(string))
	})

	cases := []struct {
		header string
		want   string
	}{
		{"", "1.0.0"},
		{"1.0", "1.0.0"},
		{"2.1.0", "2.1.0"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("X-Api-Version", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		body := make([]byte, 16)
		n, _ := resp.Body.Read(body)
		resp.Body.Close()
		if got := string(body[:n]); got != tc.want {
			t.Errorf("Header %q: expected version %q, got %q", tc.header, tc.want, got)
		}
	}
}
