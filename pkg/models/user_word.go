package models

import "time"

// UserWord tracks a user's learning progress on one phrase
type UserWord struct {
	ID              int64      `json:"id" db:"id"`
	UserID          int64      `json:"user_id" db:"user_id"`
	PhraseID        int64      `json:"phrase_id" db:"phrase_id"`
	IsLearned       bool       `json:"is_learned" db:"is_learned"`
	LastReview      *time.Time `json:"last_review,omitempty" db:"last_review"`
	NextReview      *time.Time `json:"next_review,omitempty" db:"next_review"`
	RepetitionCount int        `json:"repetition_count" db:"repetition_count"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// DueReview is the number of words a user should review now
type DueReview struct {
	UserID     int64    `db:"user_id"`
	TelegramID int64    `db:"telegram_id"`
	UILanguage Language `db:"ui_language"`
	Due        int      `db:"due"`
}
