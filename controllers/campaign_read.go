package controller

import (
	"github.com/gofiber/fiber/v2"

	"campaignhub/models"
	"campaignhub/search"
	"campaignhub/state"
	"campaignhub/utils"
)

// GetCampaigns lists campaigns filtered by search, status and platform
func (cc *CampaignController) GetCampaigns(c *fiber.Ctx) error {
	var filter search.CampaignFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", err)
	}

	items, err := cc.App.Campaigns.Ensure(c.UserContext())
	if err != nil {
		return storeFailure(c, "load campaigns", err)
	}

	campaigns := search.Campaigns(state.Values(items), filter)
	return c.JSON(list(campaigns, len(campaigns)))
}

// GetActiveCampaigns lists campaigns whose status is active
func (cc *CampaignController) GetActiveCampaigns(c *fiber.Ctx) error {
	items, err := cc.App.Campaigns.Ensure(c.UserContext())
	if err != nil {
		return storeFailure(c, "load campaigns", err)
	}

	campaigns := search.Campaigns(state.Values(items), search.CampaignFilter{
		Status: string(models.CampaignActive),
	})
	return c.JSON(list(campaigns, len(campaigns)))
}

func (cc *CampaignController) GetCampaign(c *fiber.Ctx) error {
	campaign, err := cc.App.Campaigns.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeFailure(c, "load campaign", err)
	}
	return c.JSON(utils.SuccessResponse(campaign))
}
