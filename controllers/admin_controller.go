package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"campaignhub/seed"
	"campaignhub/state"
	"campaignhub/utils"
)

type AdminController struct {
	App    *state.App
	Logger *logrus.Entry
}

func NewAdminController(app *state.App, logger *logrus.Entry) *AdminController {
	return &AdminController{
		App:    app,
		Logger: logger,
	}
}

// MigrateDemoData loads the bundled demo set into every collection
func (ac *AdminController) MigrateDemoData(c *fiber.Ctx) error {
	ds, err := seed.Demo()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read demo data", err)
	}

	res, err := seed.Migrate(c.UserContext(), ac.App, ds, ac.Logger)
	if err != nil {
		utils.LogError("migration_failed", err, map[string]interface{}{
			"uid": currentUser(c).ID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Migration failed", err)
	}

	utils.LogEvent("data_migrated", map[string]interface{}{
		"uid":       currentUser(c).ID,
		"campaigns": res.Campaigns,
		"customers": res.Customers,
		"leads":     res.Leads,
		"analytics": res.Analytics,
		"users":     res.Users,
	})
	return c.JSON(utils.SuccessResponse(res))
}
