package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Telegram.Token)
	assert.Equal(t, 60, cfg.Telegram.PollTimeout)
	assert.Equal(t, 5*time.Second, cfg.Telegram.StopTimeout)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Database.MaxRetries)
	assert.Equal(t, time.Second, cfg.Database.RetryDelay)
	assert.Equal(t, "ru", cfg.Session.DefaultUILanguage)
	assert.Equal(t, "en", cfg.Session.DefaultTargetLanguage)
	assert.NoError(t, cfg.RequireToken())
}

func TestLoadFromYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: postgres
  dsn: postgres://bot@localhost/bot
session:
  default_ui_language: en
  default_target_language: zh
`), 0o600))
	t.Setenv("DB_MAX_RETRIES", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Database.MaxRetries)
	assert.Equal(t, "en", string(cfg.Session.UILanguage()))
	assert.Equal(t, "zh", string(cfg.Session.TargetLanguage()))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: Database{Driver: "sqlite3", DSN: ":memory:", MaxRetries: 1},
			Session:  Session{IdleTTL: time.Hour, DefaultUILanguage: "ru", DefaultTargetLanguage: "en"},
			Scheduler: Scheduler{
				Enabled: true, ReminderEvery: time.Hour, SweepEvery: time.Minute,
				StartHour: 8, EndHour: 22,
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"no retries", func(c *Config) { c.Database.MaxRetries = 0 }},
		{"bad ui language", func(c *Config) { c.Session.DefaultUILanguage = "de" }},
		{"ru is not a target language", func(c *Config) { c.Session.DefaultTargetLanguage = "ru" }},
		{"hour out of range", func(c *Config) { c.Scheduler.EndHour = 24 }},
		{"zero sweep interval", func(c *Config) { c.Scheduler.SweepEvery = 0 }},
		{"zero reminder interval", func(c *Config) { c.Scheduler.ReminderEvery = 0 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	noReminders := valid()
	noReminders.Scheduler.Enabled = false
	noReminders.Scheduler.ReminderEvery = 0
	require.NoError(t, noReminders.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestRequireToken(t *testing.T) {
	var c Config
	assert.Error(t, c.RequireToken())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
