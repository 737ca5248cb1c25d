package database

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/phrasebot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// StatisticsRepository aggregates vocabulary numbers for a user
type StatisticsRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db, sb: builder(db)}
}

// UserStats returns the vocabulary size, learned count and current lesson title of a user
func (r *StatisticsRepository) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	var stats models.UserStats
	counts := r.sb.Select(
		"COUNT(*) AS word_count",
		"COALESCE(SUM(CASE WHEN is_learned THEN 1 ELSE 0 END), 0) AS learned_words",
	).From("user_words").Where(sq.Eq{"user_id": userID})
	if err := getContext(ctx, r.db, &stats, counts); err != nil {
		return nil, mapError(fmt.Sprintf("failed to count words of user %d", userID), err)
	}

	title := r.sb.Select("l.title").
		From("users u").
		Join("lessons l ON l.id = u.current_lesson_id").
		Where(sq.Eq{"u.id": userID})
	if err := getContext(ctx, r.db, &stats.CurrentLessonTitle, title); err != nil {
		if err = mapError("failed to get current lesson", err); !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}
	return &stats, nil
}
