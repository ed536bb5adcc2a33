package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shokulab/backend/internal/config"
	"github.com/shokulab/backend/internal/db"
	"github.com/shokulab/backend/internal/events"
	"github.com/shokulab/backend/internal/metrics"
	"github.com/shokulab/backend/internal/repositories"
	"github.com/shokulab/backend/internal/services"
	"go.uber.org/zap"
)

const reminderBatch = 200

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{AppName: "worker", MaxConns: 4}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	contractRepo := repositories.NewContractRepo(pool)
	escrowRepo := repositories.NewEscrowRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	publisher := events.NewRedisPublisher(rdb, log)
	escrowService := services.NewEscrowService(escrowRepo, contractRepo, auditRepo, publisher, log)

	go metrics.Serve(ctx, fmt.Sprintf(":%s", cfg.MetricsPort), log)
	go metrics.WatchPool(ctx, pool, 15*time.Second)

	// SkipIfStillRunning keeps a slow batch from overlapping the next tick.
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err = c.AddFunc(cfg.EscrowReminderSchedule, func() {
		runEscrowReminders(ctx, escrowService, cfg.EscrowReminderAfter, log)
	})
	if err != nil {
		log.Fatal("invalid reminder schedule",
			zap.String("schedule", cfg.EscrowReminderSchedule), zap.Error(err))
	}
	c.Start()

	log.Info("worker started",
		zap.String("schedule", cfg.EscrowReminderSchedule),
		zap.Duration("remind_after", cfg.EscrowReminderAfter))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down worker")
	cancel()
	<-c.Stop().Done()
}

func runEscrowReminders(ctx context.Context, escrowService *services.EscrowService, after time.Duration, log *zap.Logger) {
	sent, err := escrowService.SendReminders(ctx, after, reminderBatch)
	if err != nil {
		log.Error("escrow reminders failed", zap.Error(err))
		return
	}
	if sent > 0 {
		log.Info("escrow reminders sent", zap.Int("count", sent))
	}
}
