package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/config"
	"globetrotter/pkg/auth"
)

// RequireAuth resolves the caller's identity from the Authorization
// header and stores user_id, user_email and is_admin in the request
// locals.
//
// When jwtAuth is nil (no JWT secret configured) any bearer credential
// resolves to the fixed mock identity. With a secret configured the
// token must be a valid HS256 JWT. Either way the admin allowlist from
// config can promote the resolved user.
func RequireAuth(jwtAuth *auth.JWTAuth, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := auth.ExtractToken(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		user := auth.MockUser
		if jwtAuth != nil {
			verified, err := jwtAuth.VerifyToken(token)
			if err != nil {
				log.Printf("❌ [AUTH] Token rejected: %v", err)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid or expired token",
				})
			}
			user = *verified
		}

		isAdmin := user.IsAdmin || cfg.IsAdminUser(user.ID)

		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		c.Locals("is_admin", isAdmin)
		return c.Next()
	}
}
