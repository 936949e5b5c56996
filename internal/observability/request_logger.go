package observability

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request and feeds the request counters.
// It expects errors to be rendered by an inner middleware.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		metrics.RecordRequest(RouteKey(c), c.Method(), status, latency)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("ip", c.IP()),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return err
	}
}

// UnmatchedRoute is the metrics key shared by requests no endpoint served.
const UnmatchedRoute = "<unmatched>"

// RouteKey returns the registered pattern of the endpoint that served c, such
// as /tickets/:id/resolve. Requests that only reached prefix middleware map to
// UnmatchedRoute so metric keys stay bounded by the route table.
func RouteKey(c *fiber.Ctx) string {
	r := c.Route()
	if r == nil || r.Path == "" {
		return UnmatchedRoute
	}
	if segmentCount(r.Path) != segmentCount(c.Path()) {
		return UnmatchedRoute
	}
	return r.Path
}

func segmentCount(path string) int {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "/") + 1
}
