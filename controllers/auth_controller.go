package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"campaignhub/models"
	"campaignhub/state"
	"campaignhub/store"
	"campaignhub/utils"
)

// passwordCost is lowered by tests.
var passwordCost = bcrypt.DefaultCost

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,mailbox"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,mailbox"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	User         *models.UserProfile `json:"user"`
}

type AuthController struct {
	App    *state.App
	Logger *logrus.Entry
}

func NewAuthController(app *state.App, logger *logrus.Entry) *AuthController {
	return &AuthController{
		App:    app,
		Logger: logger,
	}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	ctx := c.UserContext()
	if _, err := ac.App.CredentialByEmail(ctx, req.Email); err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Email already registered", nil)
	} else if !errors.Is(err, store.ErrNotFound) {
		return storeFailure(c, "look up credentials", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	cred, err := ac.App.Credentials.Create(ctx, &models.Credential{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(req.Name),
	})
	if err != nil {
		return storeFailure(c, "create user", err)
	}

	profile, err := ac.signIn(ctx, cred)
	if err != nil {
		return storeFailure(c, "provision profile", err)
	}

	resp, err := issueTokens(cred, profile)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate tokens", err)
	}

	utils.LogEvent("user_registered", map[string]interface{}{"uid": cred.ID, "role": profile.Role})
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	ctx := c.UserContext()
	cred, err := ac.App.CredentialByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", nil)
		}
		return storeFailure(c, "look up credentials", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", nil)
	}

	profile, err := ac.signIn(ctx, cred)
	if err != nil {
		return storeFailure(c, "load profile", err)
	}

	resp, err := issueTokens(cred, profile)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate tokens", err)
	}
	return c.JSON(resp)
}

func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	claims, err := utils.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", nil)
	}

	ctx := c.UserContext()
	cred, err := ac.App.Credentials.Get(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", nil)
		}
		return storeFailure(c, "look up credentials", err)
	}
	if cred.TokenVersion != claims.TokenVersion {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token version", nil)
	}

	profile, err := ac.App.Users.Get(ctx, cred.ID)
	if err != nil {
		return storeFailure(c, "load profile", err)
	}

	resp, err := issueTokens(cred, profile)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate tokens", err)
	}
	return c.JSON(resp)
}

// Logout revokes every token issued so far by bumping the token version.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	user := currentUser(c)
	ctx := c.UserContext()

	cred, err := ac.App.Credentials.Get(ctx, user.ID)
	if err != nil {
		return storeFailure(c, "look up credentials", err)
	}
	cred.TokenVersion++
	if _, err := ac.App.Credentials.Update(ctx, cred); err != nil {
		return storeFailure(c, "sign out", err)
	}

	c.ClearCookie("access_token")
	return c.JSON(utils.SuccessResponse(fiber.Map{"message": "Signed out"}))
}

func (ac *AuthController) GetCurrentUser(c *fiber.Ctx) error {
	return c.JSON(utils.SuccessResponse(currentUser(c)))
}

// signIn returns the profile for cred, provisioning it on first sign-in, and
// records the sign-in time.
func (ac *AuthController) signIn(ctx context.Context, cred *models.Credential) (*models.UserProfile, error) {
	profile, err := ProvisionProfile(ctx, ac.App, cred)
	if err != nil {
		return nil, err
	}

	t := now()
	profile.LastLogin = &t
	updated, err := ac.App.Users.Update(ctx, profile)
	if err != nil {
		// lastLogin is best effort.
		ac.Logger.WithError(err).WithField("uid", profile.ID).Warn("Failed to record last login")
		return profile, nil
	}
	return updated, nil
}

// ProvisionProfile returns the profile for cred, creating it with the role
// derived from the email address when none exists yet.
func ProvisionProfile(ctx context.Context, app *state.App, cred *models.Credential) (*models.UserProfile, error) {
	profile, err := app.Users.Get(ctx, cred.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	name := cred.Name
	if name == "" {
		name = strings.SplitN(cred.Email, "@", 2)[0]
	}
	return app.Users.Create(ctx, &models.UserProfile{
		ID:         cred.ID,
		Email:      cred.Email,
		Name:       name,
		Role:       models.RoleForEmail(cred.Email),
		Department: models.DefaultDepartment,
	})
}

func issueTokens(cred *models.Credential, profile *models.UserProfile) (AuthResponse, error) {
	accessToken, refreshToken, err := utils.GenerateJWTToken(cred, profile.Role)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         profile,
	}, nil
}
