package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	app := fiber.New()
	app.Use(RequestID(), Logger(zap.New(core)), Actor())
	app.Get("/who", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("actor").(string))
	})

	req := httptest.NewRequest("GET", "/who", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	req.Header.Set(ActorHeader, "tesorero")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "HTTP Request", entry.Message)
	assert.Equal(t, "/who", entry.ContextMap()["path"])
	assert.Equal(t, "abc-123", entry.ContextMap()["request_id"])
	assert.Equal(t, int64(200), entry.ContextMap()["status_code"])
}

func TestActorDefaultsToSystem(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(), Actor())
	app.Get("/who", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("actor").(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/who", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "system", string(body))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}
