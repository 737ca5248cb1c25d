package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/phrasebot/pkg/models"
	"github.com/jmoiron/sqlx"
)

var userColumns = []string{
	"id", "telegram_id", "username", "ui_language", "target_language",
	"current_lesson_id", "created_at", "last_active_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db  *sqlx.DB
	sb  sq.StatementBuilderType
	now func() time.Time
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db:  db,
		sb:  builder(db),
		now: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// GetByTelegramID returns a user by Telegram ID or ErrNotFound
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	q := r.sb.Select(userColumns...).From("users").Where(sq.Eq{"telegram_id": telegramID})
	if err := getContext(ctx, r.db, &user, q); err != nil {
		return nil, mapError(fmt.Sprintf("failed to get user %d", telegramID), err)
	}
	return &user, nil
}

// GetOrCreate returns the user with this Telegram ID, creating it with the given defaults if absent
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string, ui, target models.Language) (*models.User, bool, error) {
	now := r.now()
	q := r.sb.Insert("users").
		Columns("telegram_id", "username", "ui_language", "target_language", "created_at", "last_active_at").
		Values(telegramID, username, ui, target, now, now).
		Suffix("ON CONFLICT (telegram_id) DO NOTHING")
	res, err := execContext(ctx, r.db, q)
	if err != nil {
		return nil, false, mapError("failed to create user", err)
	}
	created := false
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		created = true
	}

	user, err := r.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// SetLesson selects a lesson for the user; ErrNotFound if either does not exist
func (r *UserRepository) SetLesson(ctx context.Context, telegramID, lessonID int64) (*models.User, error) {
	var exists int
	check := r.sb.Select("COUNT(*)").From("lessons").Where(sq.Eq{"id": lessonID})
	if err := getContext(ctx, r.db, &exists, check); err != nil {
		return nil, mapError("failed to check lesson", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("lesson %d: %w", lessonID, models.ErrNotFound)
	}

	q := r.sb.Update("users").Set("current_lesson_id", lessonID).Where(sq.Eq{"telegram_id": telegramID})
	if err := r.updateOne(ctx, q, telegramID); err != nil {
		return nil, err
	}
	return r.GetByTelegramID(ctx, telegramID)
}

// SetLanguage changes the UI and/or target language; nil leaves a language untouched
func (r *UserRepository) SetLanguage(ctx context.Context, telegramID int64, ui, target *models.Language) (*models.User, error) {
	if ui == nil && target == nil {
		return r.GetByTelegramID(ctx, telegramID)
	}

	q := r.sb.Update("users").Where(sq.Eq{"telegram_id": telegramID})
	if ui != nil {
		q = q.Set("ui_language", *ui)
	}
	if target != nil {
		q = q.Set("target_language", *target)
	}
	if err := r.updateOne(ctx, q, telegramID); err != nil {
		return nil, err
	}
	return r.GetByTelegramID(ctx, telegramID)
}

// TouchActivity updates the last activity timestamp only
func (r *UserRepository) TouchActivity(ctx context.Context, telegramID int64) error {
	q := r.sb.Update("users").Set("last_active_at", r.now()).Where(sq.Eq{"telegram_id": telegramID})
	return r.updateOne(ctx, q, telegramID)
}

func (r *UserRepository) updateOne(ctx context.Context, q sq.UpdateBuilder, telegramID int64) error {
	res, err := execContext(ctx, r.db, q)
	if err != nil {
		return mapError(fmt.Sprintf("failed to update user %d", telegramID), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", telegramID, models.ErrNotFound)
	}
	return nil
}
