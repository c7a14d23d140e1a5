package controller

import (
	"github.com/gofiber/fiber/v2"

	"campaignhub/utils"
)

// UpdateCampaign replaces the editable fields of a campaign
func (cc *CampaignController) UpdateCampaign(c *fiber.Ctx) error {
	var input CampaignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	start, end, err := input.validate()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	ctx := c.UserContext()
	campaign, err := cc.App.Campaigns.Get(ctx, c.Params("id"))
	if err != nil {
		return storeFailure(c, "load campaign", err)
	}
	input.apply(campaign, start, end)

	updated, err := cc.App.Campaigns.Update(ctx, campaign)
	if err != nil {
		return storeFailure(c, "update campaign", err)
	}
	return c.JSON(utils.SuccessResponse(updated))
}
