package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"campaignhub/models"
	"campaignhub/utils"
)

// CreateCampaign validates and stores a new campaign
func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	var input CampaignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	start, end, err := input.validate()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	campaign := &models.Campaign{}
	input.apply(campaign, start, end)
	if user := currentUser(c); user != nil {
		campaign.CreatedBy = user.ID
	}

	created, err := cc.App.Campaigns.Create(c.UserContext(), campaign)
	if err != nil {
		return storeFailure(c, "create campaign", err)
	}

	cc.Logger.WithFields(logrus.Fields{
		"campaign_id": created.ID,
		"name":        created.Name,
	}).Info("Campaign created")
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(created))
}
