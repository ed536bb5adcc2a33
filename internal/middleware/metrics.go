package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shokulab/backend/internal/metrics"
)

// MetricsMiddleware records request counts and latency by route pattern,
// so ids in paths do not explode label cardinality.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		metrics.RecordHTTPRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
