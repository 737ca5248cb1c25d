package models

import "time"

// Lesson is a named group of phrases
type Lesson struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	DifficultyLevel int       `json:"difficulty_level" db:"difficulty_level"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
