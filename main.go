package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"campaignhub/analytics"
	"campaignhub/config"
	"campaignhub/middleware"
	"campaignhub/routes"
	"campaignhub/seed"
	"campaignhub/state"
	"campaignhub/utils"
	"campaignhub/worker"
)

func main() {
	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := utils.InitLogger(config.AppConfig.Log); err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}
	if err := utils.InitSentry(config.AppConfig.SentryDSN, config.AppConfig.Environment); err != nil {
		logrus.WithError(err).Warn("Sentry disabled")
	}
	defer utils.FlushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store connection
	if err := config.Connect(ctx); err != nil {
		logrus.Fatalf("Failed to connect to store: %v", err)
	}

	store, err := state.NewApp(config.Backend(), utils.Component("state"))
	if err != nil {
		logrus.Fatalf("Failed to open collections: %v", err)
	}
	if err := store.LoadAll(ctx); err != nil {
		logrus.WithError(err).Warn("Initial load incomplete, collections will retry on demand")
	}

	if config.AppConfig.SeedOnStart {
		ds, err := seed.Demo()
		if err != nil {
			logrus.Fatalf("Failed to read demo data: %v", err)
		}
		if _, err := seed.Migrate(ctx, store, ds, utils.Component("seed")); err != nil {
			logrus.Fatalf("Failed to migrate demo data: %v", err)
		}
	}

	// Initialize and start insight worker
	scorer := analytics.NewScorer()
	hub := worker.NewHub()
	insightWorker := worker.NewInsightWorker(store, scorer, hub, config.AppConfig.InsightRefresh(), utils.Component("insights"))
	store.OnChange(insightWorker.Notify)
	go insightWorker.Start(ctx)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "campaignhub",
	})
	app.Use(recover.New())
	app.Use(middleware.CORS(middleware.DefaultCORSConfig(config.AppConfig.CORSOrigins...)))
	app.Use(middleware.Metrics())

	// Setup routes
	routes.SetupRoutes(app, routes.Dependencies{
		App:     store,
		Scorer:  scorer,
		Hub:     hub,
		Storage: middleware.RateLimitStorage(),
	})

	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	logrus.Infof("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	config.Close(closeCtx)
	logrus.Info("Server stopped")
}
