package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string
	CORSOrigins string

	// ReminderSchedule is a standard cron expression for review backlog reminders.
	ReminderSchedule string
	// GenderQuotaPercent is the minimum share of female non-Biro pengurus.
	GenderQuotaPercent float64
	// ResetTrackOnEdit returns a rejected administrative track to pending when the owner edits it.
	ResetTrackOnEdit bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	quota, err := strconv.ParseFloat(getEnv("GENDER_QUOTA_PERCENT", "30"), 64)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:             getEnv("DB_NAME", "sk-pengajuan"),
		SkipAuth:           getEnv("SKIP_AUTH", "false") == "true",
		Environment:        getEnv("ENVIRONMENT", "development"),
		AppId:              getEnv("APP_ID", "sk-pengajuan"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173"),
		ReminderSchedule:   getEnv("REMINDER_SCHEDULE", "0 8 * * *"),
		GenderQuotaPercent: quota,
		ResetTrackOnEdit:   getEnv("RESET_TRACK_ON_EDIT", "false") == "true",
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
