package handlers

import (
	"strconv"

	"github.com/SundayYogurt/blog_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/blog_service/internal/apperr"
	"github.com/SundayYogurt/blog_service/internal/dto"
	"github.com/SundayYogurt/blog_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PostHandler struct {
	svc services.PostService
}

func NewPostHandler(svc services.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) SetupRoutes(api fiber.Router, authRequired fiber.Handler) {
	posts := api.Group("/posts")

	posts.Get("/", h.List)
	posts.Get("/:id", h.GetByID)

	posts.Post("/", authRequired, h.Create)
	posts.Put("/:id", authRequired, h.Update)
	posts.Delete("/:id", authRequired, h.Delete)
}

func (h *PostHandler) List(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 10)

	var published *bool
	if ctx.Query("published") == "true" {
		t := true
		published = &t
	}

	resp, err := h.svc.List(page, limit, published)
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (h *PostHandler) GetByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "Invalid post id")
	if err != nil {
		return err
	}

	resp, err := h.svc.GetByID(id)
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (h *PostHandler) Create(ctx *fiber.Ctx) error {
	claims, ok := middleware.CurrentUser(ctx)
	if !ok {
		return apperr.Unauthorized("Not authenticated")
	}

	var req dto.CreatePostRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if details := dto.Validate(req); details != nil {
		return apperr.Validation(details)
	}

	resp, err := h.svc.Create(claims.UserID, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

func (h *PostHandler) Update(ctx *fiber.Ctx) error {
	claims, ok := middleware.CurrentUser(ctx)
	if !ok {
		return apperr.Unauthorized("Not authenticated")
	}

	id, err := parseID(ctx, "Invalid post id")
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if details := dto.Validate(req); details != nil {
		return apperr.Validation(details)
	}

	resp, err := h.svc.Update(id, claims.UserID, claims.Role, req)
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (h *PostHandler) Delete(ctx *fiber.Ctx) error {
	claims, ok := middleware.CurrentUser(ctx)
	if !ok {
		return apperr.Unauthorized("Not authenticated")
	}

	id, err := parseID(ctx, "Invalid post id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(id, claims.UserID, claims.Role); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func parseID(ctx *fiber.Ctx, message string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest(message)
	}
	return uint(id), nil
}
