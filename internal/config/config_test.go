package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"APP_ENV", "STORE_BACKEND", "COOLDOWN_POLICY", "REFRESH_INTERVAL", "REMINDER_CHANNEL", "TZ", "DB_DRIVER"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StoreSQL, cfg.StoreBackend)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "boundary", cfg.CooldownPolicy)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, ReminderLog, cfg.ReminderChannel)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("COOLDOWN_POLICY", "rolling")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("TZ", "UTC")
	t.Setenv("REMINDER_CHANNEL", "telegram")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, "rolling", cfg.CooldownPolicy)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, int64(-100200), cfg.TelegramChatID)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "soon")
	t.Setenv("TELEGRAM_CHAT_ID", "chat")

	assert.Equal(t, time.Minute, envDuration("REFRESH_INTERVAL", time.Minute))
	assert.Equal(t, int64(7), envInt64("TELEGRAM_CHAT_ID", 7))
}

func valid() *Config {
	return &Config{
		AppEnv:          "development",
		TZ:              "UTC",
		StoreBackend:    StoreMemory,
		CooldownPolicy:  "boundary",
		RefreshInterval: time.Minute,
		ReminderChannel: ReminderLog,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown store", func(c *Config) { c.StoreBackend = "redis" }, "unknown STORE_BACKEND"},
		{"s3 without bucket", func(c *Config) { c.StoreBackend = StoreS3 }, "S3_BUCKET"},
		{"s3 complete", func(c *Config) {
			c.StoreBackend = StoreS3
			c.S3Bucket = "gugu"
			c.S3AccessKey = "key"
			c.S3SecretKey = "secret"
		}, ""},
		{"unknown policy", func(c *Config) { c.CooldownPolicy = "lazy" }, "COOLDOWN_POLICY"},
		{"zero refresh", func(c *Config) { c.RefreshInterval = 0 }, "REFRESH_INTERVAL"},
		{"bad tz", func(c *Config) { c.TZ = "Mars/Olympus" }, "invalid TZ"},
		{"email without recipient", func(c *Config) { c.ReminderChannel = ReminderEmail }, "REMINDER_EMAIL_TO"},
		{"email in development", func(c *Config) {
			c.ReminderChannel = ReminderEmail
			c.ReminderEmailTo = "me@example.com"
		}, ""},
		{"email in production without key", func(c *Config) {
			c.AppEnv = "production"
			c.ReminderChannel = ReminderEmail
			c.ReminderEmailTo = "me@example.com"
		}, "RESEND_API_KEY"},
		{"telegram without chat", func(c *Config) {
			c.ReminderChannel = ReminderTelegram
			c.TelegramToken = "123:abc"
		}, "TELEGRAM_CHAT_ID"},
		{"unknown channel", func(c *Config) { c.ReminderChannel = "pigeon" }, "REMINDER_CHANNEL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.errMsg)
			}
		})
	}
}
