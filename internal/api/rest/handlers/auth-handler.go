package handlers

import (
	"github.com/SundayYogurt/blog_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/blog_service/internal/apperr"
	"github.com/SundayYogurt/blog_service/internal/dto"
	"github.com/SundayYogurt/blog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) SetupRoutes(api fiber.Router, authRequired fiber.Handler) {
	auth := api.Group("/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/logout", h.Logout)
	auth.Post("/verify-email", h.VerifyEmail)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)

	auth.Get("/me", authRequired, h.Me)
}

func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if details := dto.Validate(req); details != nil {
		return apperr.Validation(details)
	}

	resp, err := h.svc.Register(req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if details := dto.Validate(req); details != nil {
		return apperr.Validation(details)
	}

	resp, err := h.svc.Login(req)
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (h *AuthHandler) Refresh(ctx *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	resp, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	if err := h.svc.Logout(req.RefreshToken); err != nil {
		return err
	}
	return ctx.JSON(dto.MessageResponse{Message: "Logout successful"})
}

func (h *AuthHandler) Me(ctx *fiber.Ctx) error {
	claims, ok := middleware.CurrentUser(ctx)
	if !ok {
		return apperr.Unauthorized("Not authenticated")
	}

	user, err := h.svc.Me(claims.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(user)
}

func (h *AuthHandler) VerifyEmail(ctx *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if details := dto.Validate(req); details != nil {
		return apperr.Validation(details)
	}

	if err := h.svc.VerifyEmail(req.Token); err != nil {
		return err
	}
	return ctx.JSON(dto.MessageResponse{Message: "Email verified successfully"})
}

// ForgotPassword answers with the same body whether or not the email
// exists, so the endpoint cannot be used to probe for accounts.
func (h *AuthHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if details := dto.Validate(req); details != nil {
		return apperr.Validation(details)
	}

	if err := h.svc.ForgotPassword(req.Email); err != nil {
		return err
	}
	return ctx.JSON(dto.MessageResponse{Message: "If the email exists, a password reset link has been sent"})
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if details := dto.Validate(req); details != nil {
		return apperr.Validation(details)
	}

	if err := h.svc.ResetPassword(req.Token, req.Password); err != nil {
		return err
	}
	return ctx.JSON(dto.MessageResponse{Message: "Password reset successfully"})
}
