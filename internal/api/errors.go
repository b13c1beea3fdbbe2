package api

import (
	"errors"
	"log/slog"
	"runtime/debug"

	"github.com/SundayYogurt/blog_service/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler is the single boundary translator: typed application
// errors become their status plus a generic JSON body, everything else
// is logged with a stack and normalized to a bare 500. No stack trace
// ever reaches the client.
func NewErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var appErr *apperr.AppError
		if errors.As(err, &appErr) {
			logger.Warn("application error",
				slog.String("method", ctx.Method()),
				slog.String("path", ctx.Path()),
				slog.Int("status", appErr.Status),
				slog.String("error", appErr.Message),
			)
			return ctx.Status(appErr.Status).JSON(appErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		logger.Error("unexpected error",
			slog.String("method", ctx.Method()),
			slog.String("path", ctx.Path()),
			slog.String("error", err.Error()),
			slog.String("stack", string(debug.Stack())),
		)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
