package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"campaignhub/models"
	"campaignhub/search"
	"campaignhub/state"
	"campaignhub/utils"
)

type LeadController struct {
	App    *state.App
	Logger *logrus.Entry
}

func NewLeadController(app *state.App, logger *logrus.Entry) *LeadController {
	return &LeadController{
		App:    app,
		Logger: logger,
	}
}

type LeadInput struct {
	Name    string            `json:"name" validate:"required,max=100"`
	Email   string            `json:"email" validate:"required,mailbox"`
	Phone   string            `json:"phone" validate:"omitempty,max=30"`
	Company string            `json:"company" validate:"omitempty,max=200"`
	Source  models.LeadSource `json:"source" validate:"required,oneof=instagram linkedin tiktok twitter zoho_form website"`
	Sector  string            `json:"sector" validate:"required,max=100"`
	Status  models.LeadStatus `json:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
}

func (in LeadInput) apply(l *models.Lead) {
	l.Name = strings.TrimSpace(in.Name)
	l.Email = models.NormalizeEmail(in.Email)
	l.Phone = in.Phone
	l.Company = in.Company
	l.Source = in.Source
	l.Sector = in.Sector
	l.Status = in.Status
	if l.Status == "" {
		l.Status = models.LeadNew
	}
}

// CreateLead creates a new lead with validation
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	var input LeadInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	lead := &models.Lead{}
	input.apply(lead)

	created, err := lc.App.Leads.Create(c.UserContext(), lead)
	if err != nil {
		return storeFailure(c, "create lead", err)
	}

	lc.Logger.WithFields(logrus.Fields{
		"lead_id": created.ID,
		"source":  created.Source,
	}).Info("Lead captured")
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(created))
}

// GetLeads lists leads filtered by search, status, source and sector
func (lc *LeadController) GetLeads(c *fiber.Ctx) error {
	var filter search.LeadFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", err)
	}

	items, err := lc.App.Leads.Ensure(c.UserContext())
	if err != nil {
		return storeFailure(c, "load leads", err)
	}

	leads := search.Leads(state.Values(items), filter)
	return c.JSON(list(leads, len(leads)))
}

func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	lead, err := lc.App.Leads.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeFailure(c, "load lead", err)
	}
	return c.JSON(utils.SuccessResponse(lead))
}

func (lc *LeadController) UpdateLead(c *fiber.Ctx) error {
	var input LeadInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	ctx := c.UserContext()
	lead, err := lc.App.Leads.Get(ctx, c.Params("id"))
	if err != nil {
		return storeFailure(c, "load lead", err)
	}
	input.apply(lead)

	updated, err := lc.App.Leads.Update(ctx, lead)
	if err != nil {
		return storeFailure(c, "update lead", err)
	}
	return c.JSON(utils.SuccessResponse(updated))
}

func (lc *LeadController) DeleteLead(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := lc.App.Leads.Delete(c.UserContext(), id); err != nil {
		return storeFailure(c, "delete lead", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"id": id}))
}
