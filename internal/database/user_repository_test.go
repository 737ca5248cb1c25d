package database_test

import (
	"context"
	"testing"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/internal/database/dbtest"
	"github.com/example/phrasebot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetOrCreate(t *testing.T) {
	db := dbtest.New(t)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	user, created, err := repo.GetOrCreate(ctx, 100, "alice", models.LangRU, models.LangEN)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(100), user.TelegramID)
	assert.Equal(t, models.LangRU, user.UILanguage)
	assert.Equal(t, models.LangEN, user.TargetLanguage)
	assert.Nil(t, user.CurrentLessonID)
	assert.False(t, user.CreatedAt.IsZero())

	again, created, err := repo.GetOrCreate(ctx, 100, "renamed", models.LangZH, models.LangZH)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "alice", again.Username)
	assert.Equal(t, models.LangRU, again.UILanguage)
}

func TestUserRepository_SetLesson(t *testing.T) {
	db := dbtest.New(t)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	dbtest.SeedUser(t, db, 7)
	lesson, _ := dbtest.SeedLesson(t, db, "travel", 1)

	user, err := repo.SetLesson(ctx, 7, lesson.ID)
	require.NoError(t, err)
	require.NotNil(t, user.CurrentLessonID)
	assert.Equal(t, lesson.ID, *user.CurrentLessonID)

	_, err = repo.SetLesson(ctx, 7, lesson.ID+100)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.SetLesson(ctx, 8, lesson.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository_SetLanguage(t *testing.T) {
	db := dbtest.New(t)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	dbtest.SeedUser(t, db, 7)

	zh := models.LangZH
	user, err := repo.SetLanguage(ctx, 7, nil, &zh)
	require.NoError(t, err)
	assert.Equal(t, models.LangRU, user.UILanguage)
	assert.Equal(t, models.LangZH, user.TargetLanguage)

	en := models.LangEN
	user, err = repo.SetLanguage(ctx, 7, &en, nil)
	require.NoError(t, err)
	assert.Equal(t, models.LangEN, user.UILanguage)
	assert.Equal(t, models.LangZH, user.TargetLanguage)

	_, err = repo.SetLanguage(ctx, 99, &en, nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository_TouchActivity(t *testing.T) {
	db := dbtest.New(t)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	before := dbtest.SeedUser(t, db, 7)
	require.NoError(t, repo.TouchActivity(ctx, 7))

	after, err := repo.GetByTelegramID(ctx, 7)
	require.NoError(t, err)
	assert.False(t, after.LastActiveAt.Before(before.LastActiveAt))
	assert.Equal(t, before.UILanguage, after.UILanguage)
	assert.Equal(t, before.CurrentLessonID, after.CurrentLessonID)

	assert.ErrorIs(t, repo.TouchActivity(ctx, 8), models.ErrNotFound)
}
