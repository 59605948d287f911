package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	PublicDir          string
	UpstreamBaseURL    string
	UpstreamTimeout    time.Duration
	CORSAllowedOrigins []string

	// Mock upstream settings (cmd/mockapi only).
	MockPort      string
	OTLPEndpoint  string
	ServiceName   string
	Version       string
	MockErrorRate float64
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PublicDir:          getEnv("PUBLIC_DIR", "web/public"),
		UpstreamBaseURL:    getEnv("UPSTREAM_BASE_URL", "http://localhost:9090"),
		UpstreamTimeout:    getEnvAsDuration("UPSTREAM_TIMEOUT", 20*time.Second),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		MockPort:           getEnv("MOCK_PORT", "9090"),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:        getEnv("SERVICE_NAME", "available-schedules"),
		Version:            getEnv("VERSION", "dev"),
		MockErrorRate:      getEnvAsFloat("MOCK_ERROR_RATE", 0),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvAsFloat(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvAsSlice(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
