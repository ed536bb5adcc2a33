package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	contractsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contracts_created_total",
			Help: "Contracts created, by template",
		},
		[]string{"template"},
	)

	contractResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_responses_total",
			Help: "Counterparty responses, by decision",
		},
		[]string{"decision"}, // agree, reject
	)

	contractTransitionConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contract_transition_conflicts_total",
			Help: "Responses that lost the race on a pending contract",
		},
	)

	escrowTransactionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_transactions_created_total",
			Help: "Escrow transactions opened on agreement",
		},
	)

	escrowFeesYenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_fees_yen_total",
			Help: "Sum of escrow service fees in yen",
		},
	)

	escrowRemindersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_reminders_sent_total",
			Help: "Payment reminders emitted by the worker",
		},
	)

	notificationsWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_written_total",
			Help: "In-app notifications written, by type",
		},
		[]string{"type"},
	)

	dbConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "database_connections",
			Help: "Postgres pool connections by state",
		},
		[]string{"state"}, // total, idle, acquired, max
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(contractsCreatedTotal)
	prometheus.MustRegister(contractResponsesTotal)
	prometheus.MustRegister(contractTransitionConflictsTotal)
	prometheus.MustRegister(escrowTransactionsCreatedTotal)
	prometheus.MustRegister(escrowFeesYenTotal)
	prometheus.MustRegister(escrowRemindersTotal)
	prometheus.MustRegister(notificationsWrittenTotal)
	prometheus.MustRegister(dbConnections)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordContractCreated(template string) {
	contractsCreatedTotal.WithLabelValues(template).Inc()
}

func RecordContractResponse(decision string) {
	contractResponsesTotal.WithLabelValues(decision).Inc()
}

func RecordTransitionConflict() {
	contractTransitionConflictsTotal.Inc()
}

func RecordEscrowCreated(fee int64) {
	escrowTransactionsCreatedTotal.Inc()
	escrowFeesYenTotal.Add(float64(fee))
}

func RecordEscrowReminder() {
	escrowRemindersTotal.Inc()
}

func RecordNotification(typ string) {
	notificationsWrittenTotal.WithLabelValues(typ).Inc()
}

// ObservePool copies pgxpool statistics into the connection gauges.
func ObservePool(pool *pgxpool.Pool) {
	s := pool.Stat()
	dbConnections.WithLabelValues("total").Set(float64(s.TotalConns()))
	dbConnections.WithLabelValues("idle").Set(float64(s.IdleConns()))
	dbConnections.WithLabelValues("acquired").Set(float64(s.AcquiredConns()))
	dbConnections.WithLabelValues("max").Set(float64(s.MaxConns()))
}

// Serve exposes /metrics on addr until ctx is cancelled. Used by the binaries
// that have no HTTP API of their own.
func Serve(ctx context.Context, addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server failed", zap.Error(err))
	}
}

// WatchPool refreshes the connection gauges every interval until ctx ends.
func WatchPool(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ObservePool(pool)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
