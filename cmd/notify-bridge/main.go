package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shokulab/backend/internal/config"
	"github.com/shokulab/backend/internal/db"
	"github.com/shokulab/backend/internal/events"
	"github.com/shokulab/backend/internal/metrics"
	"github.com/shokulab/backend/internal/notifications"
	"github.com/shokulab/backend/internal/repositories"
	"go.uber.org/zap"
)

// notify-bridge turns contract and payment events into in-app notification
// rows for the users named in each event.
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{AppName: "notify-bridge", MaxConns: 4}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	bridge := notifications.NewBridge(repositories.NewNotificationRepo(pool), log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	err = subscriber.Subscribe(ctx, func(event events.Event) {
		n := bridge.Handle(ctx, event)
		log.Debug("event handled", zap.String("type", event.Type), zap.Int("notifications", n))
	}, events.StreamContract, events.StreamPayment)
	if err != nil {
		log.Fatal("failed to subscribe", zap.Error(err))
	}

	go metrics.Serve(ctx, fmt.Sprintf(":%s", cfg.MetricsPort), log)

	log.Info("notify-bridge started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down notify-bridge")
	cancel()
}
