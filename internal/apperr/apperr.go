// Package apperr carries typed application errors from services up to the
// single HTTP boundary translator, which maps them to status codes.
package apperr

import "github.com/gofiber/fiber/v2"

type AppError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (e *AppError) Error() string { return e.Message }

func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func BadRequest(message string) *AppError {
	return New(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return New(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(fiber.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return New(fiber.StatusNotFound, message)
}

func Conflict(message string) *AppError {
	return New(fiber.StatusConflict, message)
}

func Internal(message string) *AppError {
	return New(fiber.StatusInternalServerError, message)
}

// Validation carries per-field messages alongside the generic error.
func Validation(details any) *AppError {
	return &AppError{
		Status:  fiber.StatusBadRequest,
		Message: "Validation failed",
		Details: details,
	}
}
