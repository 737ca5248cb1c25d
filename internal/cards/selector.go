package cards

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/example/phrasebot/pkg/models"
	"github.com/google/uuid"
)

// MaxDistractors is the number of wrong options on a card
const MaxDistractors = 3

// Vocabulary reads phrases; implemented by database.LessonRepository
type Vocabulary interface {
	AllPhrases(ctx context.Context) ([]models.Phrase, error)
	PhrasesInLesson(ctx context.Context, lessonID int64) ([]models.Phrase, error)
}

// Progress reads a user's vocabulary; implemented by progress.Tracker
type Progress interface {
	VocabularyOf(ctx context.Context, userID int64) ([]models.UserWord, error)
}

// Selector picks the phrase to quiz and its distractors
type Selector struct {
	vocab    Vocabulary
	progress Progress

	mu  sync.Mutex
	rnd *rand.Rand

	now func() time.Time
}

// NewSelector creates a selector; a nil rnd is seeded from the clock
func NewSelector(vocab Vocabulary, progress Progress, rnd *rand.Rand) *Selector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{
		vocab:    vocab,
		progress: progress,
		rnd:      rnd,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Next builds a card for the user, restricted to the user's current lesson when one is selected
func (s *Selector) Next(ctx context.Context, user *models.User) (*Card, error) {
	all, err := s.vocab.AllPhrases(ctx)
	if err != nil {
		return nil, err
	}

	pool, inVocabulary, err := s.pool(ctx, user, all)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, models.ErrEmptyPool
	}

	s.mu.Lock()
	target := pool[s.rnd.Intn(len(pool))]
	distractors := s.distractors(all, target, user.TargetLanguage)
	s.mu.Unlock()

	card := &Card{
		ID:           uuid.New(),
		UserID:       user.ID,
		PhraseID:     target.ID,
		TargetWord:   target.Text(user.TargetLanguage),
		Translation:  target.Text(user.UILanguage),
		CreatedAt:    s.now(),
		InVocabulary: inVocabulary,
	}
	for _, d := range distractors {
		card.Distractors = append(card.Distractors, d.Text(user.TargetLanguage))
		card.DistractorIDs = append(card.DistractorIDs, d.ID)
	}
	card.Options = s.options(card)
	return card, nil
}

// pool returns the candidate phrases and whether they come from the user's vocabulary
func (s *Selector) pool(ctx context.Context, user *models.User, all []models.Phrase) ([]models.Phrase, bool, error) {
	vocab, err := s.progress.VocabularyOf(ctx, user.ID)
	if err != nil {
		return nil, false, err
	}

	if len(vocab) > 0 {
		owned := make(map[int64]bool, len(vocab))
		for _, w := range vocab {
			owned[w.PhraseID] = true
		}
		var pool []models.Phrase
		for _, p := range all {
			if !owned[p.ID] || !usable(p, user) {
				continue
			}
			if user.CurrentLessonID != nil && p.LessonID != *user.CurrentLessonID {
				continue
			}
			pool = append(pool, p)
		}
		return pool, true, nil
	}

	candidates := all
	if user.CurrentLessonID != nil {
		candidates, err = s.vocab.PhrasesInLesson(ctx, *user.CurrentLessonID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get lesson phrases: %w", err)
		}
	}
	var pool []models.Phrase
	for _, p := range candidates {
		if usable(p, user) {
			pool = append(pool, p)
		}
	}
	return pool, false, nil
}

// distractors draws up to MaxDistractors phrases other than the target from the whole phrase set
func (s *Selector) distractors(all []models.Phrase, target models.Phrase, lang models.Language) []models.Phrase {
	var others []models.Phrase
	for _, p := range all {
		if p.ID != target.ID && p.Text(lang) != "" {
			others = append(others, p)
		}
	}

	s.rnd.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	if len(others) > MaxDistractors {
		others = others[:MaxDistractors]
	}
	return others
}

func (s *Selector) options(card *Card) []string {
	options := make([]string, 0, len(card.Distractors)+1)
	options = append(options, card.TargetWord)
	options = append(options, card.Distractors...)

	s.mu.Lock()
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	s.mu.Unlock()
	return options
}

// PickNew returns a random phrase the user has not added yet, or ErrAllWordsAdded
func (s *Selector) PickNew(ctx context.Context, userID int64) (*models.Phrase, error) {
	all, err := s.vocab.AllPhrases(ctx)
	if err != nil {
		return nil, err
	}
	vocab, err := s.progress.VocabularyOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned := make(map[int64]bool, len(vocab))
	for _, w := range vocab {
		owned[w.PhraseID] = true
	}
	var fresh []models.Phrase
	for _, p := range all {
		if !owned[p.ID] {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		return nil, models.ErrAllWordsAdded
	}

	s.mu.Lock()
	picked := fresh[s.rnd.Intn(len(fresh))]
	s.mu.Unlock()
	return &picked, nil
}

// usable reports whether the phrase has text on both sides of the card
func usable(p models.Phrase, user *models.User) bool {
	return p.Text(user.TargetLanguage) != "" && p.Text(user.UILanguage) != ""
}
