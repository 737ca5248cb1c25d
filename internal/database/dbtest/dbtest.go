// Package dbtest provides migrated in-memory databases and fixtures for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/example/phrasebot/internal/config"
	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/logger"
	"github.com/example/phrasebot/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// New opens a migrated in-memory SQLite database that is closed on test cleanup
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := config.Database{Driver: "sqlite3", DSN: ":memory:", MaxRetries: 1}
	db, err := database.Connect(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

// Phrase builds an unsaved phrase whose texts are derived from en
func Phrase(en string) models.Phrase {
	return models.Phrase{TextEN: en, TextRU: "ru-" + en, TextZH: "zh-" + en}
}

// SeedLesson creates a lesson with n generated phrases
func SeedLesson(t testing.TB, db *sqlx.DB, title string, n int) (*models.Lesson, []models.Phrase) {
	t.Helper()

	phrases := make([]models.Phrase, n)
	for i := range phrases {
		phrases[i] = Phrase(fmt.Sprintf("%s-%d", title, i+1))
	}
	return SeedLessonWith(t, db, title, phrases...)
}

// SeedLessonWith creates a lesson holding the given phrases
func SeedLessonWith(t testing.TB, db *sqlx.DB, title string, phrases ...models.Phrase) (*models.Lesson, []models.Phrase) {
	t.Helper()
	ctx := context.Background()
	repo := database.NewLessonRepository(db)

	lesson := &models.Lesson{Title: title, Description: title + " lesson", DifficultyLevel: 1}
	require.NoError(t, repo.CreateLesson(ctx, lesson))

	saved := make([]models.Phrase, 0, len(phrases))
	for _, p := range phrases {
		p.LessonID = lesson.ID
		require.NoError(t, repo.CreatePhrase(ctx, &p))
		saved = append(saved, p)
	}
	return lesson, saved
}

// SeedUser creates a user with ru UI and en target language
func SeedUser(t testing.TB, db *sqlx.DB, telegramID int64) *models.User {
	t.Helper()

	user, _, err := database.NewUserRepository(db).GetOrCreate(context.Background(), telegramID, "tester", models.LangRU, models.LangEN)
	require.NoError(t, err)
	return user
}
