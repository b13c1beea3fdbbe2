package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs HTTP request/response metadata.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		logger.Info("http request",
			slog.String("method", ctx.Method()),
			slog.String("path", ctx.Path()),
			slog.Int("status", ctx.Response().StatusCode()),
			slog.String("client_ip", ctx.IP()),
			slog.String("latency", time.Since(start).String()),
		)
		return err
	}
}
