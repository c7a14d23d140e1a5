package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse creates a standardized error response
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := fiber.Map{
		"success": false,
		"error":   message,
	}
	if err != nil {
		response["details"] = err.Error()
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			response["fields"] = verrs.Fields()
		}
	}
	return c.Status(status).JSON(response)
}

// SuccessResponse creates a standardized success response
func SuccessResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}

// ListResponse wraps a list with its size.
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}
