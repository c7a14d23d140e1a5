package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignhub/config"
	"campaignhub/models"
)

type campaignForm struct {
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,mailbox"`
	Platform  []string  `json:"platform" validate:"min=1"`
	Budget    float64   `json:"budget" validate:"gt=0"`
	Status    string    `json:"status" validate:"omitempty,oneof=active paused completed"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
}

func TestValidateStruct(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	valid := campaignForm{
		Name:      "Q1",
		Email:     "ops@dico.co.id",
		Platform:  []string{"instagram"},
		Budget:    1000,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
	}
	require.NoError(t, ValidateStruct(valid))

	bad := valid
	bad.Name = ""
	bad.Email = "not-an-email"
	bad.Platform = nil
	bad.Budget = 0
	bad.Status = "archived"
	bad.EndDate = start.AddDate(0, 0, -1)

	err := ValidateStruct(bad)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.Fields()
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "email must be a valid email", fields["email"])
	assert.Equal(t, "platform must have at least 1 item(s)", fields["platform"])
	assert.Equal(t, "budget must be greater than 0", fields["budget"])
	assert.Equal(t, "status must be one of: active, paused, completed", fields["status"])
	assert.Equal(t, "endDate must be after startDate", fields["endDate"])
}

func TestValidationErrorsAdd(t *testing.T) {
	var v ValidationErrors
	assert.NoError(t, v.OrNil())

	v.Add("probability", "probability must be between 0 and 100")
	err := v.OrNil()
	require.Error(t, err)
	assert.Equal(t, "probability must be between 0 and 100", err.Error())
}

func TestErrorResponseIncludesFields(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		var v ValidationErrors
		v.Add("email", "email is required")
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", v)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "Validation failed", got["error"])
	assert.Equal(t, map[string]interface{}{"email": "email is required"}, got["fields"])
}

func TestJWTRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	cred := &models.Credential{ID: "uid-1", Email: "marketing@dico.co.id", TokenVersion: 2}

	access, refresh, err := GenerateJWTToken(cred, models.RoleMarketing)
	require.NoError(t, err)

	claims, err := ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UID)
	assert.Equal(t, models.RoleMarketing, claims.Role)
	assert.Equal(t, 2, claims.TokenVersion)

	_, err = ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	rc, err := ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", rc.UID)

	config.AppConfig.JWTSecret = "rotated"
	_, err = ParseAccessToken(access)
	assert.Error(t, err)
}
