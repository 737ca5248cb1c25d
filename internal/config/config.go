package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/example/phrasebot/pkg/models"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration
type Config struct {
	Telegram  Telegram  `yaml:"telegram"`
	Database  Database  `yaml:"database"`
	Session   Session   `yaml:"session"`
	Scheduler Scheduler `yaml:"scheduler"`
	Log       Log       `yaml:"log"`
}

// Telegram holds bot transport settings
type Telegram struct {
	Token       string        `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	PollTimeout int           `yaml:"poll_timeout" env:"TELEGRAM_POLL_TIMEOUT" env-default:"60"`
	Debug       bool          `yaml:"debug" env:"TELEGRAM_DEBUG" env-default:"false"`
	StopTimeout time.Duration `yaml:"stop_timeout" env:"TELEGRAM_STOP_TIMEOUT" env-default:"5s"`
}

// Database holds connection settings
type Database struct {
	Driver       string        `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite3"`
	DSN          string        `yaml:"dsn" env:"DB_DSN" env-default:"data/phrasebot.db"`
	MaxRetries   int           `yaml:"max_retries" env:"DB_MAX_RETRIES" env-default:"3"`
	RetryDelay   time.Duration `yaml:"retry_delay" env:"DB_RETRY_DELAY" env-default:"1s"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
}

// Session holds learning session settings
type Session struct {
	CardTTL               time.Duration `yaml:"card_ttl" env:"SESSION_CARD_TTL" env-default:"24h"`
	IdleTTL               time.Duration `yaml:"idle_ttl" env:"SESSION_IDLE_TTL" env-default:"72h"`
	DefaultUILanguage     string        `yaml:"default_ui_language" env:"DEFAULT_UI_LANGUAGE" env-default:"ru"`
	DefaultTargetLanguage string        `yaml:"default_target_language" env:"DEFAULT_TARGET_LANGUAGE" env-default:"en"`
}

// Scheduler holds background job settings.
// Enabled switches reminders only; the idle session sweep runs whenever Session.IdleTTL is set.
type Scheduler struct {
	Enabled       bool          `yaml:"reminders_enabled" env:"ENABLE_REMINDERS" env-default:"true"`
	ReminderEvery time.Duration `yaml:"reminder_every" env:"REMINDER_EVERY" env-default:"1h"`
	ReminderGap   time.Duration `yaml:"reminder_gap" env:"REMINDER_GAP" env-default:"24h"`
	SweepEvery    time.Duration `yaml:"sweep_every" env:"SESSION_SWEEP_EVERY" env-default:"30m"`
	StartHour     int           `yaml:"start_hour" env:"NOTIFICATION_START_HOUR" env-default:"8"`
	EndHour       int           `yaml:"end_hour" env:"NOTIFICATION_END_HOUR" env-default:"22"`
}

// Log holds logger settings
type Log struct {
	Mode  string `yaml:"mode" env:"LOG_MODE" env-default:"development"`
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads .env, then the YAML file at path (or CONFIG_PATH), then the environment
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cleanenv cannot check by itself
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn: must not be empty"))
	}
	if c.Database.MaxRetries < 1 {
		errs = append(errs, errors.New("database.max_retries: must be at least 1"))
	}

	ui := models.Language(c.Session.DefaultUILanguage)
	if !ui.Valid() {
		errs = append(errs, fmt.Errorf("session.default_ui_language: unsupported language %q", ui))
	}
	target := models.Language(c.Session.DefaultTargetLanguage)
	if !target.IsTarget() {
		errs = append(errs, fmt.Errorf("session.default_target_language: unsupported language %q", target))
	}

	if c.Scheduler.StartHour < 0 || c.Scheduler.StartHour > 23 ||
		c.Scheduler.EndHour < 0 || c.Scheduler.EndHour > 23 {
		errs = append(errs, errors.New("scheduler: notification hours must be within 0-23"))
	}
	if c.Scheduler.Enabled && c.Scheduler.ReminderEvery <= 0 {
		errs = append(errs, errors.New("scheduler: reminder interval must be positive"))
	}
	if c.Session.IdleTTL > 0 && c.Scheduler.SweepEvery <= 0 {
		errs = append(errs, errors.New("scheduler: sweep interval must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// RequireToken fails when the bot token is not configured
func (c *Config) RequireToken() error {
	if c.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	return nil
}

// UILanguage returns the default UI language for new users
func (s Session) UILanguage() models.Language {
	return models.Language(s.DefaultUILanguage)
}

// TargetLanguage returns the default target language for new users
func (s Session) TargetLanguage() models.Language {
	return models.Language(s.DefaultTargetLanguage)
}
