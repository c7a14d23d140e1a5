package controller

import (
	"github.com/gofiber/fiber/v2"

	"campaignhub/utils"
)

func (cc *CampaignController) DeleteCampaign(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := cc.App.Campaigns.Delete(c.UserContext(), id); err != nil {
		return storeFailure(c, "delete campaign", err)
	}

	cc.Logger.WithField("campaign_id", id).Info("Campaign deleted")
	return c.JSON(utils.SuccessResponse(fiber.Map{"id": id}))
}
