package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"campaignhub/models"
	"campaignhub/state"
	"campaignhub/store"
	"campaignhub/utils"
)

// Protected requires a valid access token whose version still matches the
// credential, and stores the signed-in profile under the "user" local.
func Protected(app *state.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Try to get token from Authorization header first
		var token string
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid authorization format", nil)
			}
			token = tokenParts[1]
		} else {
			// Browsers on the websocket route cannot set headers
			token = c.Cookies("access_token", c.Query("token"))
			if token == "" {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization required", nil)
			}
		}

		claims, err := utils.ParseAccessToken(token)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", nil)
		}

		cred, err := app.Credentials.Get(c.UserContext(), claims.UID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", nil)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load credentials", err)
		}
		if claims.TokenVersion != cred.TokenVersion {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token version", nil)
		}

		profile, err := app.Users.Get(c.UserContext(), claims.UID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", nil)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load profile", err)
		}

		c.Locals("user", profile)
		c.Locals("userID", profile.ID)
		return c.Next()
	}
}

// RequirePermission rejects users whose role does not grant perm.
// It must run after Protected.
func RequirePermission(perm models.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.UserProfile)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization required", nil)
		}
		if !user.Can(perm) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Insufficient permissions", nil)
		}
		return c.Next()
	}
}
