package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	JWTSecret       string
	TokenTTL        time.Duration
	AdminEmails     []string
	DriveCloudName  string
	DriveAPIKey     string
	DriveAPISecret  string
	DriveFolder     string
	ResultsCacheTTL time.Duration
	NoticeCacheTTL  time.Duration
	JoinRateLimit   int
	JoinRateWindow  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DENIK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Denik API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("drive.folder", "denik/portfolio")
	v.SetDefault("results.cache_ttl", "1m")
	v.SetDefault("notices.cache_ttl", "5m")
	v.SetDefault("join.rate_limit", 10)
	v.SetDefault("join.rate_window", "1m")

	tokenTTL, err := parseDuration(v.GetString("token.ttl"), "24h")
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}
	resultsTTL, err := parseDuration(v.GetString("results.cache_ttl"), "1m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid results cache ttl: %w", err)
	}
	noticesTTL, err := parseDuration(v.GetString("notices.cache_ttl"), "5m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid notice cache ttl: %w", err)
	}
	joinWindow, err := parseDuration(v.GetString("join.rate_window"), "1m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid join rate window: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		TokenTTL:        tokenTTL,
		AdminEmails:     splitAndTrim(v.GetString("admin.emails")),
		DriveCloudName:  v.GetString("drive.cloud_name"),
		DriveAPIKey:     v.GetString("drive.api_key"),
		DriveAPISecret:  v.GetString("drive.api_secret"),
		DriveFolder:     v.GetString("drive.folder"),
		ResultsCacheTTL: resultsTTL,
		NoticeCacheTTL:  noticesTTL,
		JoinRateLimit:   v.GetInt("join.rate_limit"),
		JoinRateWindow:  joinWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.JoinRateLimit <= 0 {
		cfg.JoinRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(value, fallback string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	return time.ParseDuration(value)
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
