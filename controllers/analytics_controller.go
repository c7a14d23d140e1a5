package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"campaignhub/analytics"
	"campaignhub/models"
	"campaignhub/search"
	"campaignhub/state"
	"campaignhub/utils"
)

type AnalyticsController struct {
	App    *state.App
	Scorer *analytics.Scorer
	Logger *logrus.Entry
}

func NewAnalyticsController(app *state.App, scorer *analytics.Scorer, logger *logrus.Entry) *AnalyticsController {
	return &AnalyticsController{
		App:    app,
		Scorer: scorer,
		Logger: logger,
	}
}

type MetricInput struct {
	Platform    models.Platform `json:"platform" validate:"required,oneof=instagram linkedin tiktok twitter seo"`
	Impressions int64           `json:"impressions" validate:"gte=0"`
	Engagement  int64           `json:"engagement" validate:"gte=0"`
	Reach       int64           `json:"reach" validate:"gte=0"`
	Clicks      int64           `json:"clicks" validate:"gte=0"`
	CostPerLead float64         `json:"costPerLead" validate:"gte=0"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`

	VideoViews         int64                `json:"videoViews" validate:"gte=0"`
	TrafficSources     map[string]int64     `json:"trafficSources" validate:"omitempty,dive,keys,oneof=search personalProfile fyp following sound,endkeys,gte=0"`
	OrganicImpressions int64                `json:"organicImpressions" validate:"gte=0"`
	AdsImpressions     int64                `json:"adsImpressions" validate:"gte=0"`
	Weeks              []models.WeeklyStat  `json:"weeks" validate:"omitempty,max=6,dive"`
	ActiveUsers        int64                `json:"activeUsers" validate:"gte=0"`
	Keywords           []models.KeywordStat `json:"keywords" validate:"omitempty,dive"`
}

func (in MetricInput) record() *models.MetricRecord {
	return &models.MetricRecord{
		Platform:           in.Platform,
		Impressions:        in.Impressions,
		Engagement:         in.Engagement,
		Reach:              in.Reach,
		Clicks:             in.Clicks,
		CostPerLead:        in.CostPerLead,
		Date:               in.Date,
		VideoViews:         in.VideoViews,
		TrafficSources:     in.TrafficSources,
		OrganicImpressions: in.OrganicImpressions,
		AdsImpressions:     in.AdsImpressions,
		Weeks:              in.Weeks,
		ActiveUsers:        in.ActiveUsers,
		Keywords:           in.Keywords,
	}
}

func metricFilter(c *fiber.Ctx) (search.MetricFilter, error) {
	var filter search.MetricFilter
	if err := c.QueryParser(&filter); err != nil {
		return filter, err
	}
	return filter, utils.ValidateStruct(filter)
}

// GetMetrics lists stored analytics records, optionally for one platform
// and reporting period
func (ac *AnalyticsController) GetMetrics(c *fiber.Ctx) error {
	filter, err := metricFilter(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", err)
	}

	items, err := ac.App.Metrics.Ensure(c.UserContext())
	if err != nil {
		return storeFailure(c, "load analytics", err)
	}

	records := search.Metrics(state.Values(items), filter)
	return c.JSON(list(records, len(records)))
}

// GetLatestMetric returns the newest record of one platform, within a
// reporting period when month and year are given
func (ac *AnalyticsController) GetLatestMetric(c *fiber.Ctx) error {
	filter, err := metricFilter(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", err)
	}
	if !search.Active(filter.Platform) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Platform is required", nil)
	}

	items, err := ac.App.Metrics.Ensure(c.UserContext())
	if err != nil {
		return storeFailure(c, "load analytics", err)
	}

	latest, ok := analytics.Latest(search.Metrics(state.Values(items), filter), models.Platform(filter.Platform))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No analytics for this period", nil)
	}
	return c.JSON(utils.SuccessResponse(latest))
}

// SaveMetrics stores one platform's numbers for a period
func (ac *AnalyticsController) SaveMetrics(c *fiber.Ctx) error {
	var input MetricInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	created, err := ac.App.Metrics.Create(c.UserContext(), input.record())
	if err != nil {
		return storeFailure(c, "save analytics", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(created))
}

// GetInsights scores the current analytics, leads and customers
func (ac *AnalyticsController) GetInsights(c *fiber.Ctx) error {
	ctx := c.UserContext()

	metrics, err := ac.App.Metrics.Ensure(ctx)
	if err != nil {
		return storeFailure(c, "load analytics", err)
	}
	leads, err := ac.App.Leads.Ensure(ctx)
	if err != nil {
		return storeFailure(c, "load leads", err)
	}
	customers, err := ac.App.Customers.Ensure(ctx)
	if err != nil {
		return storeFailure(c, "load customers", err)
	}

	records := search.Metrics(state.Values(metrics), search.MetricFilter{Platform: c.Query("platform")})
	insights := ac.Scorer.Generate(records, state.Values(leads), state.Values(customers))
	return c.JSON(list(insights, len(insights)))
}
