package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/example/phrasebot/internal/logger"
	"github.com/example/phrasebot/pkg/models"
)

// Store persists progress records; implemented by database.UserWordRepository
type Store interface {
	ListByUser(ctx context.Context, userID int64) ([]models.UserWord, error)
	Get(ctx context.Context, userID, phraseID int64) (*models.UserWord, error)
	Insert(ctx context.Context, userID, phraseID int64, now time.Time) (*models.UserWord, error)
	InsertMany(ctx context.Context, userID int64, phraseIDs []int64, now time.Time) (int, error)
	Update(ctx context.Context, word *models.UserWord) error
	Delete(ctx context.Context, userID, phraseID int64) (bool, error)
}

// Tracker records which phrases a user learns and how well
type Tracker struct {
	store    Store
	schedule *Schedule
	log      *logger.Logger
	now      func() time.Time
}

// NewTracker creates a tracker; a nil schedule means NewSchedule()
func NewTracker(store Store, schedule *Schedule, log *logger.Logger) *Tracker {
	if schedule == nil {
		schedule = NewSchedule()
	}
	return &Tracker{
		store:    store,
		schedule: schedule,
		log:      log.With("component", "progress"),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// VocabularyOf returns every progress record of the user
func (t *Tracker) VocabularyOf(ctx context.Context, userID int64) ([]models.UserWord, error) {
	return t.store.ListByUser(ctx, userID)
}

// AddPhrase puts a phrase into the user's vocabulary; an existing record is returned unchanged
func (t *Tracker) AddPhrase(ctx context.Context, userID, phraseID int64) (*models.UserWord, error) {
	word, err := t.store.Insert(ctx, userID, phraseID, t.now())
	if err != nil {
		return nil, fmt.Errorf("failed to add phrase %d for user %d: %w", phraseID, userID, err)
	}
	return word, nil
}

// AddPhrases adds several phrases at once and returns the number of new records
func (t *Tracker) AddPhrases(ctx context.Context, userID int64, phraseIDs []int64) (int, error) {
	if len(phraseIDs) == 0 {
		return 0, nil
	}
	added, err := t.store.InsertMany(ctx, userID, phraseIDs, t.now())
	if err != nil {
		return 0, fmt.Errorf("failed to add %d phrases for user %d: %w", len(phraseIDs), userID, err)
	}
	t.log.Debug("phrases added", "user_id", userID, "requested", len(phraseIDs), "added", added)
	return added, nil
}

// RecordAnswer applies an answer to an existing record; ErrNotFound if the phrase was never added
func (t *Tracker) RecordAnswer(ctx context.Context, userID, phraseID int64, correct bool) (*models.UserWord, error) {
	word, err := t.store.Get(ctx, userID, phraseID)
	if err != nil {
		return nil, err
	}

	t.schedule.Apply(word, correct, t.now())

	if err := t.store.Update(ctx, word); err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}
	return word, nil
}

// RemovePhrase deletes a phrase from the vocabulary and reports whether it was there
func (t *Tracker) RemovePhrase(ctx context.Context, userID, phraseID int64) (bool, error) {
	return t.store.Delete(ctx, userID, phraseID)
}
