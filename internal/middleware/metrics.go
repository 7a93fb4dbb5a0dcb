package middleware

import (
	"strconv"
	"time"

	"edu-classroom/internal/logger"
	"edu-classroom/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestMetrics records a counter and latency histogram per route.
func RequestMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := c.Route().Path
		metrics.RequestCounter.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// RequestLogger logs method, path, status and latency of each request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler write the response so the status is final.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		logger.Get().Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return nil
	}
}
