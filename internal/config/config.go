package config

import (
	"os"
	"strconv"
	"time"
)

// Config roster-data (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	Mongo struct {
		URI      string
		Database string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Auth struct {
		JWTSecret  string
		AdminToken string
		SessionTTL time.Duration
	}
	Guest struct {
		PageLimit int // ceiling for maxPageReached
		PageSize  int
	}
	Mail struct {
		RelayURL string // mail-relay HTTP endpoint; empty disables notifications
		RelayKey string
		OpsEmail string
	}
	Log struct {
		Level  string
		Format string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Mongo.URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	cfg.Mongo.Database = getEnv("MONGO_DB", "roster")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.Auth.AdminToken = getEnv("ADMIN_TOKEN", "")
	cfg.Auth.SessionTTL = time.Duration(parseInt(getEnv("SESSION_TTL_MINUTES", "60"), 60)) * time.Minute

	cfg.Guest.PageLimit = parseInt(getEnv("GUEST_PAGE_LIMIT", "3"), 3)
	cfg.Guest.PageSize = parseInt(getEnv("GUEST_PAGE_SIZE", "50"), 50)

	cfg.Mail.RelayURL = getEnv("MAIL_RELAY_URL", "")
	cfg.Mail.RelayKey = getEnv("MAIL_RELAY_KEY", "")
	cfg.Mail.OpsEmail = getEnv("OPS_EMAIL", "ops@patentroster.local")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
