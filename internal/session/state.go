package session

import (
	"time"

	"github.com/example/phrasebot/internal/cards"
)

// State is the conversation state of one user
type State int

const (
	Idle State = iota
	AwaitingLessonChoice
	AwaitingTargetLanguageChoice
	AwaitingUILanguageChoice
	AwaitingAnswer
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingLessonChoice:
		return "awaiting_lesson_choice"
	case AwaitingTargetLanguageChoice:
		return "awaiting_target_language_choice"
	case AwaitingUILanguageChoice:
		return "awaiting_ui_language_choice"
	case AwaitingAnswer:
		return "awaiting_answer"
	default:
		return "unknown"
	}
}

// Session is the in-process conversation data of one user
type Session struct {
	State State
	// Card is the pending card, set only while awaiting an answer
	Card *cards.Card
	// LastPhraseID and LastWord describe the last answered card, used by "delete word"
	LastPhraseID int64
	LastWord     string
	UpdatedAt    time.Time
}

// leave moves the session to a new state, discarding the pending card
func (s *Session) leave(next State) {
	s.State = next
	s.Card = nil
}
