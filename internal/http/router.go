package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/shokulab/backend/internal/config"
	"github.com/shokulab/backend/internal/http/handlers"
	"github.com/shokulab/backend/internal/metrics"
	"github.com/shokulab/backend/internal/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Contracts *handlers.ContractHandler
	Templates *handlers.TemplateHandler
	Payments  *handlers.PaymentHandler
	Me        *handlers.MeHandler
	Internal  *handlers.InternalHandler
	WS        *handlers.WSHub
}

func SetupRouter(app *fiber.App, cfg *config.Config, log *zap.Logger, rdb *redis.Client, h Handlers) {
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))
	app.Use(middleware.MetricsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Payment collaborator callbacks, outside the user rate limit.
	internal := app.Group("/internal", middleware.InternalTokenMiddleware(cfg))
	internal.Post("/escrow/:contractId/status", h.Internal.ReportEscrowStatus)

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Public catalogue
	api.Get("/templates", h.Templates.ListTemplates)
	api.Get("/templates/clauses", h.Templates.GetClauses)
	api.Get("/templates/:id", h.Templates.GetTemplate)
	api.Get("/payment-methods", h.Payments.ListMethods)
	api.Post("/payment-methods/assess", h.Payments.AssessRisk)
	api.Post("/contracts/preview", h.Contracts.PreviewContract)

	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	protected.Get("/me/permissions", h.Me.GetPermissions)
	protected.Get("/me/notifications", h.Me.ListNotifications)
	protected.Post("/me/notifications/:id/read", h.Me.MarkNotificationRead)

	protected.Post("/contracts", h.Contracts.CreateContract)
	protected.Get("/contracts", h.Contracts.ListContracts)
	protected.Get("/contracts/:id", h.Contracts.GetContract)
	protected.Post("/contracts/:id/respond", h.Contracts.RespondToContract)
	protected.Post("/contracts/:id/agree", h.Contracts.AgreeContract)
	protected.Post("/contracts/:id/reject", h.Contracts.RejectContract)
	protected.Get("/contracts/:id/events", h.Contracts.GetContractEvents)
	protected.Get("/contracts/:id/escrow", h.Contracts.GetEscrow)

	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(h.WS.HandleWS))
}
