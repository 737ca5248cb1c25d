package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsRepository_UserStats(t *testing.T) {
	db := dbtest.New(t)
	stats := database.NewStatisticsRepository(db)
	words := database.NewUserWordRepository(db)
	ctx := context.Background()

	user := dbtest.SeedUser(t, db, 1)

	empty, err := stats.UserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.WordCount)
	assert.Zero(t, empty.LearnedWords)
	assert.Empty(t, empty.CurrentLessonTitle)

	lesson, phrases := dbtest.SeedLesson(t, db, "animals", 3)
	_, err = database.NewUserRepository(db).SetLesson(ctx, user.TelegramID, lesson.ID)
	require.NoError(t, err)

	for _, p := range phrases {
		_, err := words.Insert(ctx, user.ID, p.ID, time.Now())
		require.NoError(t, err)
	}
	learned, err := words.Get(ctx, user.ID, phrases[0].ID)
	require.NoError(t, err)
	learned.IsLearned = true
	require.NoError(t, words.Update(ctx, learned))

	got, err := stats.UserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.WordCount)
	assert.Equal(t, 1, got.LearnedWords)
	assert.Equal(t, "animals", got.CurrentLessonTitle)
}
