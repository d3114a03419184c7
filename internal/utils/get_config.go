package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort string `yaml:"APP_PORT"`
	LogDir  string `yaml:"LOG_DIR"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT configuration
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Redis configuration
	RedisURL string `yaml:"REDIS_URL"`

	// Geocoding configuration
	GeocoderAPIKey string `yaml:"GEOCODER_API_KEY"`
	GeocoderURL    string `yaml:"GEOCODER_URL"`
}

var config Config

// LoadConfig reads config.yaml, then lets a .env file and the process
// environment override individual keys.
func LoadConfig() {
	LoadConfigFrom("config.yaml")
}

func LoadConfigFrom(path string) {
	config = Config{}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %s\n", err)
	}

	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			setConfig(key, value)
		}
	}

	if config.AppPort == "" {
		config.AppPort = "8080"
	}
	if config.LogDir == "" {
		config.LogDir = "./logs"
	}
}

var configKeys = []string{
	"APP_PORT", "LOG_DIR",
	"DB_USER", "DB_NAME", "DB_PASSWORD", "DB_PORT", "DB_HOST",
	"JWT_SECRET",
	"SMTP_HOST", "SMTP_PORT", "SMTP_SENDER_NAME", "SMTP_AUTH_EMAIL", "SMTP_AUTH_PASSWORD",
	"REDIS_URL",
	"GEOCODER_API_KEY", "GEOCODER_URL",
}

func field(key string) *string {
	switch key {
	case "APP_PORT":
		return &config.AppPort
	case "LOG_DIR":
		return &config.LogDir
	case "DB_USER":
		return &config.DBUser
	case "DB_NAME":
		return &config.DBName
	case "DB_PASSWORD":
		return &config.DBPassword
	case "DB_PORT":
		return &config.DBPort
	case "DB_HOST":
		return &config.DBHost
	case "JWT_SECRET":
		return &config.JWTSecret
	case "SMTP_HOST":
		return &config.SMTPHost
	case "SMTP_PORT":
		return &config.SMTPPort
	case "SMTP_SENDER_NAME":
		return &config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return &config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return &config.SMTPAuthPassword
	case "REDIS_URL":
		return &config.RedisURL
	case "GEOCODER_API_KEY":
		return &config.GeocoderAPIKey
	case "GEOCODER_URL":
		return &config.GeocoderURL
	default:
		return nil
	}
}

func setConfig(key, value string) {
	if f := field(key); f != nil {
		*f = value
	}
}

func GetConfig(key string) string {
	if f := field(key); f != nil {
		return *f
	}
	return ""
}
