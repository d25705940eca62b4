package config

import (
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	HTTPPort            string
	BaseURL             string
	DatabaseURL         string
	SQLitePath          string
	RedisAddr           string
	StripeAPIKey        string
	StripeWebhookSecret string
	TrialSweepSchedule  string
}

// LoadConfig reads configuration from the environment, .env included.
func LoadConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "4001")
	v.SetDefault("BASE_URL", "http://localhost:4001")
	v.SetDefault("SQLITE_PATH", ".db/resumine.db")
	v.SetDefault("TRIAL_SWEEP_SCHEDULE", "@every 10m")

	return &Config{
		HTTPPort:            v.GetString("HTTP_PORT"),
		BaseURL:             v.GetString("BASE_URL"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		SQLitePath:          v.GetString("SQLITE_PATH"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		StripeAPIKey:        v.GetString("STRIPE_API_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		TrialSweepSchedule:  v.GetString("TRIAL_SWEEP_SCHEDULE"),
	}
}

// GetDB opens the configured database, postgres when DATABASE_URL is set,
// a local sqlite file otherwise. TranslateError maps driver uniqueness
// violations to gorm.ErrDuplicatedKey across both.
func GetDB(cnf *Config) *gorm.DB {
	gormConfig := &gorm.Config{TranslateError: true}

	if cnf.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cnf.DatabaseURL), gormConfig)
		if err != nil {
			logrus.Fatalf("error connecting to postgres: %v", err)
		}
		return db
	}

	if err := os.MkdirAll(filepath.Dir(cnf.SQLitePath), os.ModePerm); err != nil {
		logrus.Fatalf("error creating sqlite directory: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cnf.SQLitePath), gormConfig)
	if err != nil {
		logrus.Fatalf("error opening sqlite database: %v", err)
	}

	return db
}
