package cards

import (
	"time"

	"github.com/google/uuid"
)

// Card is a quiz prompt presented to a user
type Card struct {
	ID            uuid.UUID // Identifies the card in logs
	UserID        int64     // Internal user id
	PhraseID      int64     // Phrase being tested
	TargetWord    string    // Text in the target language, the expected answer
	Translation   string    // Text in the UI language, shown as the prompt
	Distractors   []string  // Wrong options in the target language
	DistractorIDs []int64   // Phrases the distractors come from
	Options       []string  // Target word and distractors, shuffled
	CreatedAt     time.Time
	// InVocabulary is false when the target came from the lesson or global pool
	InVocabulary bool
}

// Valid reports whether the card holds everything needed to check an answer
func (c *Card) Valid() bool {
	return c != nil &&
		c.ID != uuid.Nil &&
		c.UserID != 0 &&
		c.PhraseID != 0 &&
		c.TargetWord != "" &&
		c.Translation != "" &&
		len(c.Options) > 0
}
