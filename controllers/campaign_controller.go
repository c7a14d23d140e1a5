package controller

import (
	"time"

	"github.com/sirupsen/logrus"

	"campaignhub/models"
	"campaignhub/state"
	"campaignhub/utils"
)

const dateLayout = "2006-01-02"

type CampaignController struct {
	App    *state.App
	Logger *logrus.Entry
}

func NewCampaignController(app *state.App, logger *logrus.Entry) *CampaignController {
	return &CampaignController{
		App:    app,
		Logger: logger,
	}
}

// CampaignInput is the create/update body. Dates accept either YYYY-MM-DD
// or RFC 3339.
type CampaignInput struct {
	Name             string                `json:"name" validate:"required,max=200"`
	Platform         []string              `json:"platform" validate:"min=1,dive,oneof=instagram linkedin tiktok twitter website"`
	StartDate        string                `json:"startDate" validate:"required"`
	EndDate          string                `json:"endDate" validate:"required"`
	Budget           float64               `json:"budget" validate:"gt=0"`
	Spent            float64               `json:"spent" validate:"gte=0"`
	Leads            int                   `json:"leads" validate:"gte=0"`
	Conversions      int                   `json:"conversions" validate:"gte=0"`
	Status           models.CampaignStatus `json:"status" validate:"omitempty,oneof=active paused completed"`
	TargetProducts   []models.Product      `json:"targetProducts" validate:"min=1,dive,oneof=meterai_elektronik digital_solution smart_card graph_analytic digital_product"`
	TargetIndustries []string              `json:"targetIndustries"`
	Description      string                `json:"description" validate:"omitempty,max=2000"`
}

// validate runs the tag rules plus the date-order rule, which needs both
// dates parsed first.
func (in CampaignInput) validate() (start, end time.Time, err error) {
	var errs utils.ValidationErrors
	if err := utils.ValidateStruct(in); err != nil {
		verrs, ok := err.(utils.ValidationErrors)
		if !ok {
			return start, end, err
		}
		errs = verrs
	}

	fields := errs.Fields()
	var startErr, endErr error
	if _, failed := fields["startDate"]; !failed {
		if start, startErr = parseDate(in.StartDate); startErr != nil {
			errs.Add("startDate", "startDate must be a date in the format "+dateLayout)
		}
	}
	if _, failed := fields["endDate"]; !failed {
		if end, endErr = parseDate(in.EndDate); endErr != nil {
			errs.Add("endDate", "endDate must be a date in the format "+dateLayout)
		}
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		errs.Add("endDate", "endDate must be after startDate")
	}
	return start, end, errs.OrNil()
}

func (in CampaignInput) apply(c *models.Campaign, start, end time.Time) {
	c.Name = in.Name
	c.Platform = in.Platform
	c.StartDate = start
	c.EndDate = end
	c.Budget = in.Budget
	c.Spent = in.Spent
	c.Leads = in.Leads
	c.Conversions = in.Conversions
	c.Status = in.Status
	if c.Status == "" {
		c.Status = models.CampaignActive
	}
	c.TargetProducts = in.TargetProducts
	c.TargetIndustries = in.TargetIndustries
	if c.TargetIndustries == nil {
		c.TargetIndustries = []string{}
	}
	c.Description = in.Description
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
