package models

// UserStats summarises a user's vocabulary for the welcome screen
type UserStats struct {
	WordCount          int    `json:"word_count" db:"word_count"`
	LearnedWords       int    `json:"learned_words" db:"learned_words"`
	CurrentLessonTitle string `json:"current_lesson_title" db:"current_lesson_title"`
}
