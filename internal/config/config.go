package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/templui/gugu/internal/validation"
)

const (
	StoreSQL    = "sql"
	StoreS3     = "s3"
	StoreMemory = "memory"

	ReminderLog      = "log"
	ReminderEmail    = "email"
	ReminderTelegram = "telegram"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	TZ      string

	// Store backend for goals and entries: "sql", "s3" or "memory"
	StoreBackend string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
	S3Prefix    string

	// Tracking
	CooldownPolicy  string        // "boundary" or "rolling"
	RefreshInterval time.Duration // cooldown re-check while foregrounded

	// Reminders
	ReminderChannel string // "log", "email" or "telegram"
	EmailFrom       string
	ResendAPIKey    string
	ReminderEmailTo string
	TelegramToken   string
	TelegramChatID  int64

	// Observability (optional)
	SentryDSN   string
	MetricsAddr string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "gugu"),
		AppEnv:  envString("APP_ENV", "development"),
		TZ:      envString("TZ", "Local"),

		StoreBackend: envString("STORE_BACKEND", StoreSQL),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/gugu.db?_pragma=journal_mode(WAL)"),

		// Storage
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3Prefix:    envString("S3_PREFIX", "gugu/"),

		// Tracking
		CooldownPolicy:  envString("COOLDOWN_POLICY", "boundary"),
		RefreshInterval: envDuration("REFRESH_INTERVAL", time.Minute),

		// Reminders (RESEND_API_KEY optional in development)
		ReminderChannel: envString("REMINDER_CHANNEL", ReminderLog),
		EmailFrom:       envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey:    envString("RESEND_API_KEY", ""),
		ReminderEmailTo: envString("REMINDER_EMAIL_TO", ""),
		TelegramToken:   envString("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:  envInt64("TELEGRAM_CHAT_ID", 0),

		// Observability
		SentryDSN:   envString("SENTRY_DSN", ""),
		MetricsAddr: envString("METRICS_ADDR", ""),
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
// Development allows email to run in log mode without an API key.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreSQL, StoreMemory:
	case StoreS3:
		if c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("STORE_BACKEND=s3 requires S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (use sql, s3 or memory)", c.StoreBackend)
	}

	switch c.CooldownPolicy {
	case "boundary", "rolling":
	default:
		return fmt.Errorf("unknown COOLDOWN_POLICY %q (use boundary or rolling)", c.CooldownPolicy)
	}

	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.ReminderChannel {
	case ReminderLog:
	case ReminderEmail:
		if err := validation.ValidateEmail(c.ReminderEmailTo); err != nil {
			return fmt.Errorf("REMINDER_EMAIL_TO: %w", err)
		}
		if c.IsProduction() && c.ResendAPIKey == "" {
			return fmt.Errorf("production email reminders require RESEND_API_KEY (set APP_ENV=development for log mode)")
		}
	case ReminderTelegram:
		if c.TelegramToken == "" || c.TelegramChatID == 0 {
			return fmt.Errorf("REMINDER_CHANNEL=telegram requires TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
		}
	default:
		return fmt.Errorf("unknown REMINDER_CHANNEL %q (use log, email or telegram)", c.ReminderChannel)
	}

	return nil
}

// Location is the time zone calendar days are computed in.
func (c *Config) Location() (*time.Location, error) {
	if c.TZ == "" || c.TZ == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", c.TZ, err)
	}
	return loc, nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
