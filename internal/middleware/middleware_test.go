package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/auth"
	"github.com/shokulab/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetRequestID(c)) })

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"kept", "req-123", true},
		{"missing", "", false},
		{"with spaces", "a b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			got := resp.Header.Get(RequestIDHeader)
			if tt.keep {
				assert.Equal(t, tt.header, got)
			} else {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	app := fiber.New()
	app.Get("/", AuthMiddleware(cfg, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(GetUserID(c).String())
	})

	userID := uuid.New()
	good, err := auth.GenerateJWT("secret", userID, time.Hour)
	require.NoError(t, err)
	forged, err := auth.GenerateJWT("other", userID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid", "Bearer " + good, fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"no bearer prefix", good, fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestInternalTokenMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
		wantStatus int
	}{
		{"match", "tok", "tok", fiber.StatusOK},
		{"mismatch", "tok", "nope", fiber.StatusUnauthorized},
		{"unconfigured refuses all", "", "", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/", InternalTokenMiddleware(&config.Config{InternalAPIToken: tt.configured}), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})
			req := httptest.NewRequest(fiber.MethodPost, "/", nil)
			req.Header.Set(InternalTokenHeader, tt.sent)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimitMiddleware(nil, 1, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
