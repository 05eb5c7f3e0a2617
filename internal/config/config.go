package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application settings
type Config struct {
	// Server
	Port string
	Host string

	// Database
	DBPath string

	// File Storage
	UploadPath  string
	MaxFileSize int64

	// Mail
	AppName        string
	SendGridAPIKey string
	FromEmail      string

	// Security
	JWTSecret     string
	JWTExpiration time.Duration
	OTPTTL        time.Duration
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env if present
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		Host:           getEnv("HOST", "0.0.0.0"),
		DBPath:         getEnv("DB_PATH", "./data/smartstudent.db"),
		UploadPath:     getEnv("UPLOAD_PATH", "./uploads"),
		AppName:        getEnv("APP_NAME", "SmartStudent"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		FromEmail:      getEnv("FROM_EMAIL", "noreply@smartstudent.local"),
		JWTSecret:      getEnv("JWT_SECRET", "smartstudentsecret"),
		JWTExpiration:  24 * time.Hour,
		OTPTTL:         5 * time.Minute,
	}

	if maxFileSize, err := strconv.ParseInt(getEnv("MAX_FILE_SIZE", "52428800"), 10, 64); err == nil {
		config.MaxFileSize = maxFileSize
	} else {
		config.MaxFileSize = 50 * 1024 * 1024 // 50MB by default
	}

	return config, nil
}

// getEnv reads an environment variable with a fallback default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
