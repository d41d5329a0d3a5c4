package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
	JWTSecret  string `yaml:"jwt_secret"`

	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOBucket    string `yaml:"minio_bucket"`

	// SessionStrategy selects how the history view groups messages:
	// "date" (legacy day buckets) or "explicit" (client session ids).
	SessionStrategy string `yaml:"session_strategy"`

	CalendarBaseURL string `yaml:"calendar_base_url"`
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		// No .env file, system environment is enough
		_ = err
	}

	cfg := Config{
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", ""),
		DBName:     getEnv("DB_NAME", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "fiesta-knowledge"),

		SessionStrategy: getEnv("SESSION_STRATEGY", ""),
		CalendarBaseURL: getEnv("CALENDAR_BASE_URL", "https://www.googleapis.com/calendar/v3"),
	}

	if path := os.Getenv("FIESTA_CONFIG"); path != "" {
		applyFile(&cfg, path)
	}

	if cfg.SessionStrategy == "" {
		cfg.SessionStrategy = "date"
	}

	return cfg
}

// applyFile overlays values from a yaml file onto empty fields only, so
// environment variables always win.
func applyFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return
	}
	overlay := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
		}
	}
	overlay(&cfg.DBUser, file.DBUser)
	overlay(&cfg.DBPassword, file.DBPassword)
	overlay(&cfg.DBHost, file.DBHost)
	overlay(&cfg.DBPort, file.DBPort)
	overlay(&cfg.DBName, file.DBName)
	overlay(&cfg.JWTSecret, file.JWTSecret)
	overlay(&cfg.MinIOEndpoint, file.MinIOEndpoint)
	overlay(&cfg.MinIOAccessKey, file.MinIOAccessKey)
	overlay(&cfg.MinIOSecretKey, file.MinIOSecretKey)
	overlay(&cfg.MinIOBucket, file.MinIOBucket)
	overlay(&cfg.CalendarBaseURL, file.CalendarBaseURL)
	overlay(&cfg.SessionStrategy, file.SessionStrategy)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
