package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"campaignhub/models"
	"campaignhub/store"
)

var (
	DB          *gorm.DB
	MongoClient *mongo.Client
	Mongo       *mongo.Database
	AppConfig   Config
)

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false" json:"enabled"`
	Address  string `env:"REDIS_ADDRESS" envDefault:"localhost:6379" json:"address"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB" envDefault:"0" json:"db"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info" json:"level"`
	Format     string `env:"LOG_FORMAT" envDefault:"text" json:"format"`
	File       string `env:"LOG_FILE" json:"file"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100" json:"max_size"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5" json:"max_backups"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"30" json:"max_age"`
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development" json:"environment"`
	ServerPort  string `env:"SERVER_PORT" envDefault:"5000" json:"server_port"`
	JWTSecret   string `env:"JWT_SECRET" json:"-"`

	StoreDriver    string `env:"STORE_DRIVER" envDefault:"memory" json:"store_driver"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost" json:"db_host"`
	DBPort         string `env:"DB_PORT" envDefault:"5432" json:"db_port"`
	DBUser         string `env:"DB_USER" envDefault:"postgres" json:"db_user"`
	DBPassword     string `env:"DB_PASSWORD" json:"-"`
	DBName         string `env:"DB_NAME" envDefault:"campaignhub" json:"db_name"`
	DBSSLMode      string `env:"DB_SSL_MODE" envDefault:"disable" json:"db_ssl_mode"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10" json:"db_max_idle_conns"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"100" json:"db_max_open_conns"`
	MongoURI       string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017" json:"-"`
	MongoDB        string `env:"MONGO_DB" envDefault:"campaignhub" json:"mongo_db"`

	Redis           RedisConfig `json:"redis"`
	RateLimitMax    int         `env:"RATE_LIMIT_MAX" envDefault:"10" json:"rate_limit_max"`
	RateLimitWindow int         `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60" json:"rate_limit_window"`
	CORSOrigins     []string    `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000" json:"cors_origins"`

	InsightRefreshSeconds int  `env:"INSIGHT_REFRESH_SECONDS" envDefault:"30" json:"insight_refresh_seconds"`
	SeedOnStart           bool `env:"SEED_ON_START" envDefault:"false" json:"seed_on_start"`

	SentryDSN string    `env:"SENTRY_DSN" json:"-"`
	Log       LogConfig `json:"log"`
}

// devSecret signs tokens in development when JWT_SECRET is unset.
const devSecret = "campaignhub-development-secret"

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
}

// Parse reads the configuration from the environment and validates it.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case store.DriverMemory, store.DriverMongo:
	case store.DriverPostgres:
		if cfg.DBPassword == "" {
			return cfg, fmt.Errorf("DB_PASSWORD is required for the postgres store")
		}
	default:
		return cfg, fmt.Errorf("STORE_DRIVER must be one of memory, postgres, mongo; got %q", cfg.StoreDriver)
	}

	// Only a development environment may fall back to the built-in secret.
	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return cfg, fmt.Errorf("JWT_SECRET is required in %s", cfg.Environment)
		}
		cfg.JWTSecret = devSecret
	}
	if cfg.InsightRefreshSeconds <= 0 {
		return cfg, fmt.Errorf("INSIGHT_REFRESH_SECONDS must be positive")
	}
	return cfg, nil
}

func LoadConfig() error {
	cfg, err := Parse()
	if err != nil {
		return err
	}
	AppConfig = cfg
	logConfig()
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c Config) InsightRefresh() time.Duration {
	return time.Duration(c.InsightRefreshSeconds) * time.Second
}

// Connect opens the connection the configured store driver needs.
func Connect(ctx context.Context) error {
	switch AppConfig.StoreDriver {
	case store.DriverPostgres:
		return ConnectDB()
	case store.DriverMongo:
		return ConnectMongo(ctx)
	}
	return nil
}

// Backend describes the open store connection.
func Backend() store.Backend {
	return store.Backend{
		Driver: AppConfig.StoreDriver,
		DB:     DB,
		Mongo:  Mongo,
	}
}

func ConnectDB() error {
	logrus.Info("Attempting to connect to database...")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)
	logrus.WithField("dsn", maskPassword(dsn)).Debug("Using connection string")

	var err error
	// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logrus.Info("Successfully connected to the database")
	if err := migrateDB(DB); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	logrus.Info("Database migration completed")
	return nil
}

func ConnectMongo(ctx context.Context) error {
	opts := options.Client().ApplyURI(AppConfig.MongoURI).
		SetMaxPoolSize(50).
		SetConnectTimeout(5 * time.Second)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	Mongo = client.Database(AppConfig.MongoDB)
	logrus.WithField("database", AppConfig.MongoDB).Info("Successfully connected to MongoDB")
	return nil
}

// Close releases whichever connection is open.
func Close(ctx context.Context) {
	if MongoClient != nil {
		if err := MongoClient.Disconnect(ctx); err != nil {
			logrus.WithError(err).Error("Failed to disconnect MongoDB client")
		}
	}
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

func logConfig() {
	logrus.WithFields(logrus.Fields{
		"environment":   AppConfig.Environment,
		"port":          AppConfig.ServerPort,
		"store":         AppConfig.StoreDriver,
		"redis":         AppConfig.Redis.Enabled,
		"seed_on_start": AppConfig.SeedOnStart,
		"sentry":        AppConfig.SentryDSN != "",
	}).Info("Loaded configuration")
	if AppConfig.StoreDriver == store.DriverPostgres {
		logrus.Infof("Database: %s@%s:%s/%s",
			AppConfig.DBUser,
			AppConfig.DBHost,
			AppConfig.DBPort,
			AppConfig.DBName)
	}
}

func migrateDB(db *gorm.DB) error {
	return db.AutoMigrate(models.Tables()...)
}
