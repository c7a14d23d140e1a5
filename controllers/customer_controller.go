package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"campaignhub/models"
	"campaignhub/search"
	"campaignhub/state"
	"campaignhub/utils"
)

type OpportunityInput struct {
	ID                string                   `json:"id"`
	Product           models.Product           `json:"product" validate:"required,oneof=meterai_elektronik digital_solution smart_card graph_analytic digital_product"`
	Status            models.OpportunityStatus `json:"status" validate:"omitempty,oneof=interested proposal_sent negotiation closed_won closed_lost"`
	Value             float64                  `json:"value" validate:"gte=0"`
	Probability       float64                  `json:"probability" validate:"gte=0,lte=100"`
	ExpectedCloseDate string                   `json:"expectedCloseDate" validate:"omitempty,datetime=2006-01-02"`
	Notes             string                   `json:"notes" validate:"omitempty,max=1000"`
}

func (in OpportunityInput) toModel() models.Opportunity {
	status := in.Status
	if status == "" {
		status = models.OpportunityInterested
	}
	return models.Opportunity{
		Product:           in.Product,
		Status:            status,
		Value:             in.Value,
		Probability:       in.Probability,
		ExpectedCloseDate: in.ExpectedCloseDate,
		Notes:             in.Notes,
	}
}

type CustomerInput struct {
	CompanyName          string                `json:"companyName" validate:"required,max=200"`
	ContactPerson        string                `json:"contactPerson" validate:"required,max=100"`
	Email                string                `json:"email" validate:"required,mailbox"`
	Phone                string                `json:"phone" validate:"required,max=30"`
	Industry             string                `json:"industry" validate:"required"`
	CompanySize          models.CompanySize    `json:"companySize" validate:"omitempty,oneof=small medium large enterprise"`
	Status               models.CustomerStatus `json:"status" validate:"omitempty,oneof=prospect active inactive"`
	LastInteraction      *time.Time            `json:"lastInteraction"`
	Notes                string                `json:"notes" validate:"omitempty,max=2000"`
	ProductOpportunities []OpportunityInput    `json:"productOpportunities" validate:"omitempty,dive"`
	PriorityScore        *int                  `json:"priorityScore" validate:"omitempty,min=0,max=10"`
	AssignedTo           string                `json:"assignedTo"`
	Source               string                `json:"source"`
}

// apply copies the input onto c. Opportunities whose id matches an existing
// one keep that id and its creation time; the rest are added as new.
func (in CustomerInput) apply(c *models.Customer, at time.Time) {
	c.CompanyName = in.CompanyName
	c.ContactPerson = in.ContactPerson
	c.Email = models.NormalizeEmail(in.Email)
	c.Phone = in.Phone
	c.Industry = in.Industry
	c.CompanySize = in.CompanySize
	c.LastInteraction = in.LastInteraction
	c.Notes = in.Notes
	c.AssignedTo = in.AssignedTo
	c.Source = in.Source

	c.Status = in.Status
	if c.Status == "" {
		c.Status = models.CustomerProspect
	}
	if in.PriorityScore != nil {
		c.PriorityScore = *in.PriorityScore
	} else if c.PriorityScore == 0 {
		c.PriorityScore = models.DefaultPriorityScore
	}

	if in.ProductOpportunities != nil {
		prev := make(map[string]models.Opportunity, len(c.ProductOpportunities))
		for _, o := range c.ProductOpportunities {
			prev[o.ID] = o
		}

		c.ProductOpportunities = make([]models.Opportunity, 0, len(in.ProductOpportunities))
		for _, oi := range in.ProductOpportunities {
			o := oi.toModel()
			if old, ok := prev[oi.ID]; ok && oi.ID != "" {
				o.ID = old.ID
				o.CreatedAt = old.CreatedAt
				o.UpdatedAt = at
				c.ProductOpportunities = append(c.ProductOpportunities, o)
				continue
			}
			c.AddOpportunity(o, at)
		}
	}
	c.Recalculate()
}

type CustomerController struct {
	App    *state.App
	Logger *logrus.Entry
}

func NewCustomerController(app *state.App, logger *logrus.Entry) *CustomerController {
	return &CustomerController{
		App:    app,
		Logger: logger,
	}
}

// GetCustomers lists customers filtered by search, status and product.
func (cc *CustomerController) GetCustomers(c *fiber.Ctx) error {
	var filter search.CustomerFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", err)
	}

	items, err := cc.App.Customers.Ensure(c.UserContext())
	if err != nil {
		return storeFailure(c, "load customers", err)
	}

	customers := search.Customers(state.Values(items), filter)
	return c.JSON(list(customers, len(customers)))
}

func (cc *CustomerController) GetCustomer(c *fiber.Ctx) error {
	customer, err := cc.App.Customers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeFailure(c, "load customer", err)
	}
	return c.JSON(utils.SuccessResponse(customer))
}

func (cc *CustomerController) CreateCustomer(c *fiber.Ctx) error {
	var input CustomerInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	customer := &models.Customer{}
	input.apply(customer, now())

	created, err := cc.App.Customers.Create(c.UserContext(), customer)
	if err != nil {
		return storeFailure(c, "create customer", err)
	}

	cc.Logger.WithFields(logrus.Fields{
		"customer_id": created.ID,
		"company":     created.CompanyName,
	}).Info("Customer created")
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(created))
}

func (cc *CustomerController) UpdateCustomer(c *fiber.Ctx) error {
	var input CustomerInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	ctx := c.UserContext()
	customer, err := cc.App.Customers.Get(ctx, c.Params("id"))
	if err != nil {
		return storeFailure(c, "load customer", err)
	}
	input.apply(customer, now())

	updated, err := cc.App.Customers.Update(ctx, customer)
	if err != nil {
		return storeFailure(c, "update customer", err)
	}
	return c.JSON(utils.SuccessResponse(updated))
}

func (cc *CustomerController) DeleteCustomer(c *fiber.Ctx) error {
	if err := cc.App.Customers.Delete(c.UserContext(), c.Params("id")); err != nil {
		return storeFailure(c, "delete customer", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"id": c.Params("id")}))
}
