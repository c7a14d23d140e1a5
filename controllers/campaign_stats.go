package controller

import (
	"github.com/gofiber/fiber/v2"

	"campaignhub/utils"
)

// GetCampaignStats returns the derived performance numbers of one campaign.
func (cc *CampaignController) GetCampaignStats(c *fiber.Ctx) error {
	campaign, err := cc.App.Campaigns.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeFailure(c, "load campaign", err)
	}

	var utilisation float64
	if campaign.Budget > 0 {
		utilisation = campaign.Spent / campaign.Budget * 100
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"campaignId":      campaign.ID,
		"leads":           campaign.Leads,
		"conversions":     campaign.Conversions,
		"conversionRate":  campaign.ConversionRate(),
		"costPerLead":     campaign.CostPerLead(),
		"budgetUsedPct":   utilisation,
		"overBudget":      campaign.Spent > campaign.Budget,
		"remainingBudget": campaign.Budget - campaign.Spent,
	}))
}
