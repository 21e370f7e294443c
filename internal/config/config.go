package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	LogChannelID  int64
	AdminIDs      []int64

	// Minimum interval between file uploads per user.
	FileInterval time.Duration

	DBDriver string
	DBDSN    string

	// Ops HTTP API. Empty HTTPAddr disables it.
	HTTPAddr       string
	AdminUser      string
	AdminPassHash  string // bcrypt
	AuthHMACSecret string
	CORSOrigins    []string

	LogLevel string
	LogFile  string
	TempDir  string
}

// FromEnv loads configuration from the environment, reading a .env file
// first when present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		LogChannelID:   envInt64("LOG_CHANNEL_ID", 0),
		AdminIDs:       envIDs("ADMIN_IDS"),
		FileInterval:   time.Duration(envInt64("MIN_INTERVAL_BETWEEN_FILES", 60)) * time.Second,
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          os.Getenv("DB_DSN"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  os.Getenv("ADMIN_PASS_HASH"),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		CORSOrigins:    csv(envOr("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
		TempDir:        envOr("TEMP_DIR", "temp"),
	}
	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	return cfg, nil
}

// IsAdmin reports whether id is in ADMIN_IDS.
func (c Config) IsAdmin(id int64) bool {
	for _, a := range c.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envIDs(k string) []int64 {
	var ids []int64
	for _, p := range csv(os.Getenv(k)) {
		if n, err := strconv.ParseInt(p, 10, 64); err == nil {
			ids = append(ids, n)
		}
	}
	return ids
}

func csv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
