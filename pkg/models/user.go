package models

import "time"

// User represents a Telegram user of the bot
type User struct {
	ID              int64     `json:"id" db:"id"`
	TelegramID      int64     `json:"telegram_id" db:"telegram_id"`
	Username        string    `json:"username" db:"username"`
	UILanguage      Language  `json:"ui_language" db:"ui_language"`
	TargetLanguage  Language  `json:"target_language" db:"target_language"`
	CurrentLessonID *int64    `json:"current_lesson_id,omitempty" db:"current_lesson_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	LastActiveAt    time.Time `json:"last_active_at" db:"last_active_at"`
}
