package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"campaignhub/models"
	"campaignhub/utils"
)

// Opportunity handlers live on CustomerController: every change rewrites the
// owning customer so its pipeline total is recomputed in the same write.

func (cc *CustomerController) AddOpportunity(c *fiber.Ctx) error {
	var input OpportunityInput
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

	opp := customer.AddOpportunity(input.toModel(), now())
	updated, err := cc.App.Customers.Update(ctx, customer)
	if err != nil {
		return storeFailure(c, "add opportunity", err)
	}

	cc.Logger.WithField("customer_id", updated.ID).
		WithField("opportunity_id", opp.ID).
		Info("Opportunity added")
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(updated))
}

func (cc *CustomerController) UpdateOpportunity(c *fiber.Ctx) error {
	var input OpportunityInput
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

	if _, err := customer.UpdateOpportunity(c.Params("oppId"), input.toModel(), now()); err != nil {
		if errors.Is(err, models.ErrOpportunityNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Opportunity not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to update opportunity", err)
	}

	updated, err := cc.App.Customers.Update(ctx, customer)
	if err != nil {
		return storeFailure(c, "update opportunity", err)
	}
	return c.JSON(utils.SuccessResponse(updated))
}

func (cc *CustomerController) DeleteOpportunity(c *fiber.Ctx) error {
	ctx := c.UserContext()
	customer, err := cc.App.Customers.Get(ctx, c.Params("id"))
	if err != nil {
		return storeFailure(c, "load customer", err)
	}

	if err := customer.RemoveOpportunity(c.Params("oppId")); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Opportunity not found", nil)
	}

	updated, err := cc.App.Customers.Update(ctx, customer)
	if err != nil {
		return storeFailure(c, "delete opportunity", err)
	}
	return c.JSON(utils.SuccessResponse(updated))
}
