package bot

import (
	"time"
)

// Config represents the configuration for the bot
type Config struct {
	// Long polling timeout in seconds
	PollTimeout int
	// How long Stop waits for the update worker
	StopTimeout time.Duration
	// Log raw Telegram API traffic
	Debug bool
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *Config {
	return &Config{
		PollTimeout: 60,
		StopTimeout: 5 * time.Second,
	}
}
