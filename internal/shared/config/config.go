package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultMaxFileSize = 10 << 20 // 10 MiB

// Config holds application configuration, built once at startup and passed
// down to every component.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	JWTSecret       string
	FastAPIURL      string
	UploadDir       string
	MaxFileSize     int64
	CORSAllowOrigin []string

	AllowedExtensions []string
	AllowedMimeTypes  []string

	ProcessTimeout time.Duration
	StatusTimeout  time.Duration
	HealthTimeout  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file is loaded first if present, for dev convenience.
func Load() (Config, error) {
	_ = godotenv.Load()

	env := normalizeEnv(getEnv("ENV", "dev"))

	cfg := Config{
		Port:              getEnv("PORT", "5000"),
		Env:               env,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		FastAPIURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("FASTAPI_URL")), "/"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		MaxFileSize:       defaultMaxFileSize,
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		AllowedExtensions: defaultExtensions(),
		AllowedMimeTypes:  defaultMimeTypes(),
		ProcessTimeout:    30 * time.Second,
		StatusTimeout:     10 * time.Second,
		HealthTimeout:     5 * time.Second,
	}

	if raw := strings.TrimSpace(os.Getenv("MAX_FILE_SIZE")); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size <= 0 {
			return Config{}, fmt.Errorf("MAX_FILE_SIZE must be a positive byte count, got %q", raw)
		}
		cfg.MaxFileSize = size
	}
	if d, ok, err := readDuration("PROCESS_TIMEOUT"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.ProcessTimeout = d
	}
	if d, ok, err := readDuration("STATUS_TIMEOUT"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.StatusTimeout = d
	}
	if d, ok, err := readDuration("HEALTH_TIMEOUT"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.HealthTimeout = d
	}

	if env == "production" {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required in production")
		}
		if cfg.JWTSecret == "" {
			return Config{}, fmt.Errorf("JWT_SECRET is required in production")
		}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
	}

	return cfg, nil
}

// defaultExtensions mirrors the upload allow-list: document, image, and
// office formats.
func defaultExtensions() []string {
	return []string{
		".jpeg", ".jpg", ".png", ".gif",
		".pdf", ".txt",
		".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	}
}

func defaultMimeTypes() []string {
	return []string{
		"image/jpeg", "image/png", "image/gif",
		"application/pdf", "text/plain",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

func readDuration(key string) (time.Duration, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, false, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return d, true, nil
}
