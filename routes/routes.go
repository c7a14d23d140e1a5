package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"campaignhub/analytics"
	controller "campaignhub/controllers"
	"campaignhub/middleware"
	"campaignhub/models"
	"campaignhub/state"
	"campaignhub/utils"
	"campaignhub/worker"
)

const logFormat = "[${time}] ${status} - ${latency} ${method} ${path}\n"

// Dependencies are the shared services the handlers are built from.
type Dependencies struct {
	App    *state.App
	Scorer *analytics.Scorer
	Hub    *worker.Hub
	// Storage backs the auth rate limiter; nil keeps counters in memory.
	Storage fiber.Storage
}

func SetupAuthRoutes(app *fiber.App, deps Dependencies) {
	authController := controller.NewAuthController(deps.App, utils.Component("auth"))

	auth := app.Group("/auth", logger.New(logger.Config{
		Format: logFormat,
	}))

	// Public auth endpoints, throttled per client
	limit := middleware.AuthRateLimiter(deps.Storage)
	auth.Post("/register", limit, authController.Register)
	auth.Post("/login", limit, authController.Login)
	auth.Post("/refresh", limit, authController.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protected := middleware.Protected(deps.App)
	auth.Post("/logout", protected, authController.Logout)
	auth.Get("/me", protected, authController.GetCurrentUser)

	logrus.Info("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, deps Dependencies) {
	customerController := controller.NewCustomerController(deps.App, utils.Component("customer"))
	campaignController := controller.NewCampaignController(deps.App, utils.Component("campaign"))
	leadController := controller.NewLeadController(deps.App, utils.Component("lead"))
	analyticsController := controller.NewAnalyticsController(deps.App, deps.Scorer, utils.Component("analytics"))
	dashboardController := controller.NewDashboardController(deps.App, utils.Component("dashboard"))
	adminController := controller.NewAdminController(deps.App, utils.Component("admin"))

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(deps.App), logger.New(logger.Config{
		Format: logFormat,
	}))

	viewAnalytics := middleware.RequirePermission(models.PermViewAnalytics)
	viewCustomers := middleware.RequirePermission(models.PermViewCustomers)
	manageCustomers := middleware.RequirePermission(models.PermManageCustomers)
	viewCampaigns := middleware.RequirePermission(models.PermViewCampaigns)
	manageCampaigns := middleware.RequirePermission(models.PermManageCampaigns)
	viewLeads := middleware.RequirePermission(models.PermViewLeads)
	manageLeads := middleware.RequirePermission(models.PermManageLeads)

	// Dashboard routes
	dashboard := api.Group("/dashboard", viewAnalytics)
	dashboard.Get("/summary", dashboardController.GetSummary)
	dashboard.Get("/trends", dashboardController.GetMetricTrend)
	dashboard.Get("/recent-campaigns", dashboardController.GetRecentCampaigns)

	// Customer routes
	customer := api.Group("/customers")
	customer.Get("/", viewCustomers, customerController.GetCustomers)
	customer.Post("/", manageCustomers, customerController.CreateCustomer)
	customer.Get("/:id", viewCustomers, customerController.GetCustomer)
	customer.Put("/:id", manageCustomers, customerController.UpdateCustomer)
	customer.Delete("/:id", manageCustomers, customerController.DeleteCustomer)
	customer.Post("/:id/opportunities", manageCustomers, customerController.AddOpportunity)
	customer.Put("/:id/opportunities/:oppId", manageCustomers, customerController.UpdateOpportunity)
	customer.Delete("/:id/opportunities/:oppId", manageCustomers, customerController.DeleteOpportunity)

	// Campaign routes
	campaign := api.Group("/campaigns")
	campaign.Get("/", viewCampaigns, campaignController.GetCampaigns)
	campaign.Post("/", manageCampaigns, campaignController.CreateCampaign)
	campaign.Get("/active", viewCampaigns, campaignController.GetActiveCampaigns)
	campaign.Get("/:id", viewCampaigns, campaignController.GetCampaign)
	campaign.Put("/:id", manageCampaigns, campaignController.UpdateCampaign)
	campaign.Delete("/:id", manageCampaigns, campaignController.DeleteCampaign)
	campaign.Get("/:id/stats", viewCampaigns, campaignController.GetCampaignStats)

	// Lead routes
	lead := api.Group("/leads")
	lead.Get("/", viewLeads, leadController.GetLeads)
	lead.Post("/", manageLeads, leadController.CreateLead)
	lead.Get("/:id", viewLeads, leadController.GetLead)
	lead.Put("/:id", manageLeads, leadController.UpdateLead)
	lead.Delete("/:id", manageLeads, leadController.DeleteLead)

	// Analytics routes
	stats := api.Group("/analytics")
	stats.Get("/metrics", viewAnalytics, analyticsController.GetMetrics)
	stats.Get("/metrics/latest", viewAnalytics, analyticsController.GetLatestMetric)
	stats.Post("/metrics", manageCampaigns, analyticsController.SaveMetrics)
	stats.Get("/insights", viewAnalytics, analyticsController.GetInsights)

	// Admin routes
	admin := api.Group("/admin", middleware.RequirePermission(models.PermAdministerData))
	admin.Post("/migrate", adminController.MigrateDemoData)

	// WebSocket route for live insights
	api.Get("/insights/stream", viewAnalytics, func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}, websocket.New(deps.Hub.Serve))

	logrus.Info("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", middleware.MetricsHandler())

	SetupAuthRoutes(app, deps)
	SetupAPIRoutes(app, deps)

	// Handle 404
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
