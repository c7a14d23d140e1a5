package controller

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"campaignhub/analytics"
	"campaignhub/models"
	"campaignhub/search"
	"campaignhub/state"
	"campaignhub/utils"
)

type DashboardController struct {
	App    *state.App
	Logger *logrus.Entry
}

func NewDashboardController(app *state.App, logger *logrus.Entry) *DashboardController {
	return &DashboardController{
		App:    app,
		Logger: logger,
	}
}

type CampaignSummary struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Status         models.CampaignStatus `json:"status"`
	Leads          int                   `json:"leads"`
	ConversionRate float64               `json:"conversionRate"`
	CostPerLead    float64               `json:"costPerLead"`
}

// GetSummary returns the headline numbers for the dashboard cards
func (dc *DashboardController) GetSummary(c *fiber.Ctx) error {
	ctx := c.UserContext()

	customers, err := dc.App.Customers.Ensure(ctx)
	if err != nil {
		return storeFailure(c, "load customers", err)
	}
	campaigns, err := dc.App.Campaigns.Ensure(ctx)
	if err != nil {
		return storeFailure(c, "load campaigns", err)
	}
	leads, err := dc.App.Leads.Ensure(ctx)
	if err != nil {
		return storeFailure(c, "load leads", err)
	}

	summary := analytics.Summarize(state.Values(customers), state.Values(campaigns), state.Values(leads))
	return c.JSON(utils.SuccessResponse(summary))
}

// GetMetricTrend returns one metric per platform over time
func (dc *DashboardController) GetMetricTrend(c *fiber.Ctx) error {
	records, err := dc.App.Metrics.Ensure(c.UserContext())
	if err != nil {
		return storeFailure(c, "load analytics", err)
	}

	filtered := search.Metrics(state.Values(records), search.MetricFilter{Platform: c.Query("platform")})
	trend, ok := analytics.Trend(filtered, c.Query("metric", "engagement"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown metric", nil)
	}
	return c.JSON(utils.SuccessResponse(trend))
}

// GetRecentCampaigns returns the newest campaigns with their derived rates
func (dc *DashboardController) GetRecentCampaigns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 3)
	if limit <= 0 {
		limit = 3
	}

	items, err := dc.App.Campaigns.Ensure(c.UserContext())
	if err != nil {
		return storeFailure(c, "load campaigns", err)
	}

	campaigns := state.Values(items)
	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
	})
	if len(campaigns) > limit {
		campaigns = campaigns[:limit]
	}

	summaries := make([]CampaignSummary, 0, len(campaigns))
	for _, campaign := range campaigns {
		summaries = append(summaries, CampaignSummary{
			ID:             campaign.ID,
			Name:           campaign.Name,
			Status:         campaign.Status,
			Leads:          campaign.Leads,
			ConversionRate: campaign.ConversionRate(),
			CostPerLead:    campaign.CostPerLead(),
		})
	}
	return c.JSON(utils.SuccessResponse(summaries))
}
