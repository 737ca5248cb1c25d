package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/phrasebot/internal/config"
	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteFileMigrates(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "bot.db")
	cfg := config.Database{Driver: "sqlite3", DSN: dsn, MaxRetries: 1}

	db, err := database.Connect(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	statuses, err := database.MigrationStatus(context.Background(), db)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	for _, s := range statuses {
		assert.Equal(t, "applied", string(s.State))
	}
}

func TestConnect_RetriesThenFails(t *testing.T) {
	cfg := config.Database{
		Driver:     "postgres",
		DSN:        "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
		MaxRetries: 3,
		RetryDelay: 10 * time.Millisecond,
	}

	start := time.Now()
	_, err := database.Connect(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestConnect_UnknownDriver(t *testing.T) {
	cfg := config.Database{Driver: "oracle", DSN: "x", MaxRetries: 1}
	_, err := database.Connect(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
