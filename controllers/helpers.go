package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"campaignhub/models"
	"campaignhub/store"
	"campaignhub/utils"
)

// now is the clock used by handlers that stamp values themselves.
var now = time.Now

// currentUser returns the profile set by middleware.Protected.
func currentUser(c *fiber.Ctx) *models.UserProfile {
	user, _ := c.Locals("user").(*models.UserProfile)
	return user
}

// storeFailure maps a repository error onto a response. The failed
// operation has already left the collection unchanged.
func storeFailure(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Record not found", nil)
	case errors.Is(err, store.ErrConflict):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Record already exists", nil)
	}

	utils.LogError("store_failure", err, map[string]interface{}{
		"action": action,
		"path":   c.Path(),
	})
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to "+action, err)
}

func list(data interface{}, total int) fiber.Map {
	return utils.SuccessResponse(utils.ListResponse{Data: data, Total: total})
}
