package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shokulab/backend/internal/config"
	"github.com/shokulab/backend/internal/db"
	"github.com/shokulab/backend/internal/events"
	apphttp "github.com/shokulab/backend/internal/http"
	"github.com/shokulab/backend/internal/http/handlers"
	"github.com/shokulab/backend/internal/metrics"
	"github.com/shokulab/backend/internal/repositories"
	"github.com/shokulab/backend/internal/services"
	"github.com/shokulab/backend/internal/templates"
	"github.com/shokulab/backend/internal/verification"
	"github.com/shokulab/backend/migrations"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	// A template with an unresolvable placeholder must stop the API here.
	registry, err := templates.NewRegistry(templates.DefaultTemplates(), templates.DefaultClauses())
	if err != nil {
		log.Fatal("invalid contract templates", zap.Error(err))
	}
	fees := cfg.FeeSchedule()
	if err := fees.Validate(); err != nil {
		log.Fatal("invalid escrow fee schedule", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{AppName: "api", MaxConns: int32(cfg.PostgresMaxConns)}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	contractRepo := repositories.NewContractRepo(pool)
	escrowRepo := repositories.NewEscrowRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	contractService := services.NewContractService(contractRepo, userRepo, auditRepo, registry,
		verification.NewDefaultGate(), publisher, cfg, log)
	escrowService := services.NewEscrowService(escrowRepo, contractRepo, auditRepo, publisher, log)
	notificationService := services.NewNotificationService(notificationRepo)

	wsHub := handlers.NewWSHub(cfg, subscriber, log)
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to subscribe websocket hub", zap.Error(err))
	}

	go metrics.WatchPool(ctx, pool, 15*time.Second)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, apphttp.Handlers{
		Contracts: handlers.NewContractHandler(contractService, escrowService, log),
		Templates: handlers.NewTemplateHandler(registry),
		Payments:  handlers.NewPaymentHandler(fees),
		Me:        handlers.NewMeHandler(contractService, notificationService, log),
		Internal:  handlers.NewInternalHandler(escrowService, log),
		WS:        wsHub,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
