package middleware

import (
	"strings"

	"github.com/SundayYogurt/blog_service/internal/apperr"
	"github.com/SundayYogurt/blog_service/internal/helper"
	"github.com/gofiber/fiber/v2"
)

const localsUserKey = "user"

// AuthRequired verifies a "Bearer <token>" header and attaches the
// decoded claims to the request. It is pure: no store access, no token
// refresh, just pass or reject.
func AuthRequired(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperr.Unauthorized("No token provided")
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return apperr.Unauthorized("Token format invalid")
		}

		claims, err := auth.VerifyToken(parts[1])
		if err != nil {
			return apperr.Unauthorized("Invalid token")
		}

		ctx.Locals(localsUserKey, claims)
		return ctx.Next()
	}
}

// RequireRoles gates a route on the role AuthRequired attached.
func RequireRoles(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, ok := CurrentUser(ctx)
		if !ok {
			return apperr.Unauthorized("Not authenticated")
		}

		for _, role := range roles {
			if claims.Role == role {
				return ctx.Next()
			}
		}
		return apperr.Forbidden("Insufficient permissions")
	}
}

// CurrentUser returns the claims AuthRequired stored on the request.
func CurrentUser(ctx *fiber.Ctx) (helper.TokenClaims, bool) {
	claims, ok := ctx.Locals(localsUserKey).(helper.TokenClaims)
	return claims, ok
}
