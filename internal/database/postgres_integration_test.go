//go:build integration

package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/example/phrasebot/internal/config"
	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/database/dbtest"
	"github.com/example/phrasebot/internal/logger"
	"github.com/example/phrasebot/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a disposable PostgreSQL container and connects to it through Connect
func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config.Database{
		Driver:       "postgres",
		DSN:          fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxRetries:   5,
		RetryDelay:   time.Second,
		MaxOpenConns: 5,
	}
	db, err := database.Connect(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresRepositories(t *testing.T) {
	ctx := context.Background()
	db := startPostgres(t)

	lesson, phrases := dbtest.SeedLesson(t, db, "Greetings", 3)
	user := dbtest.SeedUser(t, db, 42)

	users := database.NewUserRepository(db)
	updated, err := users.SetLesson(ctx, 42, lesson.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.CurrentLessonID)
	assert.Equal(t, lesson.ID, *updated.CurrentLessonID)

	_, err = users.SetLesson(ctx, 42, lesson.ID+100)
	assert.ErrorIs(t, err, models.ErrNotFound)

	words := database.NewUserWordRepository(db)
	now := time.Now().UTC().Truncate(time.Second)
	added, err := words.InsertMany(ctx, user.ID, []int64{phrases[0].ID, phrases[1].ID, phrases[0].ID}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	_, err = words.Insert(ctx, user.ID, phrases[2].ID+100, now)
	assert.ErrorIs(t, err, models.ErrNotFound)

	word, err := words.Get(ctx, user.ID, phrases[0].ID)
	require.NoError(t, err)
	past := now.Add(-time.Hour)
	word.NextReview = &past
	require.NoError(t, words.Update(ctx, word))

	due, err := words.DueReviews(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, int64(42), due[0].TelegramID)
	assert.Equal(t, 1, due[0].Due)

	stats, err := database.NewStatisticsRepository(db).UserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WordCount)
	assert.Equal(t, "Greetings", stats.CurrentLessonTitle)

	statuses, err := database.MigrationStatus(ctx, db)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	assert.False(t, statuses[0].AppliedAt.IsZero())
}
