package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/phrasebot/pkg/models"
	"github.com/jmoiron/sqlx"
)

var userWordColumns = []string{
	"id", "user_id", "phrase_id", "is_learned", "last_review", "next_review", "repetition_count", "created_at",
}

// UserWordRepository stores per-user progress records
type UserWordRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewUserWordRepository creates a new repository instance
func NewUserWordRepository(db *sqlx.DB) *UserWordRepository {
	return &UserWordRepository{db: db, sb: builder(db)}
}

// ListByUser returns all progress records of a user
func (r *UserWordRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserWord, error) {
	var words []models.UserWord
	q := r.sb.Select(userWordColumns...).From("user_words").Where(sq.Eq{"user_id": userID}).OrderBy("id")
	if err := selectContext(ctx, r.db, &words, q); err != nil {
		return nil, mapError("failed to get user words", err)
	}
	return words, nil
}

// Get returns the record for a (user, phrase) pair or ErrNotFound
func (r *UserWordRepository) Get(ctx context.Context, userID, phraseID int64) (*models.UserWord, error) {
	return r.get(ctx, r.db, userID, phraseID)
}

func (r *UserWordRepository) get(ctx context.Context, q sqlx.QueryerContext, userID, phraseID int64) (*models.UserWord, error) {
	var word models.UserWord
	sel := r.sb.Select(userWordColumns...).From("user_words").
		Where(sq.Eq{"user_id": userID, "phrase_id": phraseID})
	if err := getContext(ctx, q, &word, sel); err != nil {
		return nil, mapError(fmt.Sprintf("failed to get user word %d/%d", userID, phraseID), err)
	}
	return &word, nil
}

func (r *UserWordRepository) insert(userID, phraseID int64, now time.Time) sq.InsertBuilder {
	return r.sb.Insert("user_words").
		Columns("user_id", "phrase_id", "created_at").
		Values(userID, phraseID, now).
		Suffix("ON CONFLICT (user_id, phrase_id) DO NOTHING")
}

// Insert creates the record if it is absent and returns the stored one
func (r *UserWordRepository) Insert(ctx context.Context, userID, phraseID int64, now time.Time) (*models.UserWord, error) {
	if _, err := execContext(ctx, r.db, r.insert(userID, phraseID, now)); err != nil {
		return nil, mapError("failed to add user word", err)
	}
	return r.Get(ctx, userID, phraseID)
}

// InsertMany adds several phrases in one transaction and returns how many were new
func (r *UserWordRepository) InsertMany(ctx context.Context, userID int64, phraseIDs []int64, now time.Time) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, mapError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	added := 0
	for _, phraseID := range phraseIDs {
		res, err := execContext(ctx, tx, r.insert(userID, phraseID, now))
		if err != nil {
			return 0, mapError(fmt.Sprintf("failed to add phrase %d", phraseID), err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, mapError("failed to commit transaction", err)
	}
	return added, nil
}

// Update saves the progress fields of a record
func (r *UserWordRepository) Update(ctx context.Context, word *models.UserWord) error {
	q := r.sb.Update("user_words").
		Set("is_learned", word.IsLearned).
		Set("last_review", word.LastReview).
		Set("next_review", word.NextReview).
		Set("repetition_count", word.RepetitionCount).
		Where(sq.Eq{"user_id": word.UserID, "phrase_id": word.PhraseID})
	res, err := execContext(ctx, r.db, q)
	if err != nil {
		return mapError("failed to update user word", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user word %d/%d: %w", word.UserID, word.PhraseID, models.ErrNotFound)
	}
	return nil
}

// Delete removes a record and reports whether it existed
func (r *UserWordRepository) Delete(ctx context.Context, userID, phraseID int64) (bool, error) {
	q := r.sb.Delete("user_words").Where(sq.Eq{"user_id": userID, "phrase_id": phraseID})
	res, err := execContext(ctx, r.db, q)
	if err != nil {
		return false, mapError("failed to delete user word", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError("failed to delete user word", err)
	}
	return n > 0, nil
}

// DueReviews counts, per user, words whose next review is not later than now
func (r *UserWordRepository) DueReviews(ctx context.Context, now time.Time) ([]models.DueReview, error) {
	var due []models.DueReview
	q := r.sb.Select("u.id AS user_id", "u.telegram_id AS telegram_id", "u.ui_language AS ui_language", "COUNT(*) AS due").
		From("user_words w").
		Join("users u ON u.id = w.user_id").
		Where(sq.Eq{"w.is_learned": false}).
		Where(sq.NotEq{"w.next_review": nil}).
		Where(sq.LtOrEq{"w.next_review": now}).
		GroupBy("u.id", "u.telegram_id", "u.ui_language").
		OrderBy("u.id")
	if err := selectContext(ctx, r.db, &due, q); err != nil {
		return nil, mapError("failed to get due reviews", err)
	}
	return due, nil
}
