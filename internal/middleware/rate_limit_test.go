package middleware

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestRateLimitRejectsAfterMax(t *testing.T) {
	app := fiber.New()
	app.Get("/ping", RateLimit("test", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimitKeysPerUser(t *testing.T) {
	app := fiber.New()
	app.Get("/ping",
		func(c *fiber.Ctx) error {
			if raw := c.Get("X-Test-User"); raw != "" {
				parsed, err := strconv.ParseUint(raw, 10, 64)
				require.NoError(t, err)
				c.Locals("user_id", uint(parsed))
			}
			return c.Next()
		},
		RateLimit("test", 1, time.Minute),
		func(c *fiber.Ctx) error {
			return c.SendString("pong")
		},
	)

	first := httptest.NewRequest("GET", "/ping", nil)
	first.Header.Set("X-Test-User", "1")
	resp, err := app.Test(first)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	exhausted := httptest.NewRequest("GET", "/ping", nil)
	exhausted.Header.Set("X-Test-User", "1")
	resp, err = app.Test(exhausted)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	other := httptest.NewRequest("GET", "/ping", nil)
	other.Header.Set("X-Test-User", "2")
	resp, err = app.Test(other)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
