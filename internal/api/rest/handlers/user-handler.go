package handlers

import (
	"github.com/SundayYogurt/blog_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/blog_service/internal/apperr"
	"github.com/SundayYogurt/blog_service/internal/domain"
	"github.com/SundayYogurt/blog_service/internal/dto"
	"github.com/SundayYogurt/blog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) SetupRoutes(api fiber.Router, authRequired fiber.Handler) {
	users := api.Group("/users", authRequired)

	users.Get("/", h.List)
	users.Get("/:id", h.GetByID)
	users.Put("/:id", h.Update)
	users.Delete("/:id", middleware.RequireRoles(domain.RoleAdmin), h.Delete)
}

func (h *UserHandler) List(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 10)

	resp, err := h.svc.List(page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (h *UserHandler) GetByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Invalid user id")
	if err != nil {
		return err
	}

	resp, err := h.svc.GetByID(id)
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (h *UserHandler) Update(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Invalid user id")
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if details := dto.Validate(req); details != nil {
		return apperr.Validation(details)
	}

	resp, err := h.svc.Update(id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (h *UserHandler) Delete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Invalid user id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
