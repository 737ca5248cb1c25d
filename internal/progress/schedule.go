package progress

import (
	"time"

	"github.com/example/phrasebot/pkg/models"
)

// Schedule decides when a word is reviewed next and when it counts as learned
type Schedule struct {
	// Число правильных ответов, после которого слово считается выученным
	LearnedThreshold int
	// Максимальный интервал повторения в днях
	MaxInterval int
	// Интервалы повторения в днях, по номеру повторения
	Intervals []int
}

// NewSchedule создает расписание с настройками по умолчанию
func NewSchedule() *Schedule {
	return &Schedule{
		LearnedThreshold: 5,
		MaxInterval:      365,
		Intervals:        []int{0, 1, 2, 3, 7, 10, 15, 20, 30},
	}
}

// Interval returns the review interval in days after the given number of correct answers
func (s *Schedule) Interval(repetitions int) int {
	if len(s.Intervals) == 0 {
		return 0
	}
	if repetitions < 0 {
		repetitions = 0
	}
	if repetitions >= len(s.Intervals) {
		repetitions = len(s.Intervals) - 1
	}
	days := s.Intervals[repetitions]
	if s.MaxInterval > 0 && days > s.MaxInterval {
		days = s.MaxInterval
	}
	return days
}

// Apply updates a progress record after an answer.
// Only correct answers move the repetition count; a wrong one sends the word back to the first step.
func (s *Schedule) Apply(word *models.UserWord, correct bool, now time.Time) {
	reviewed := now
	word.LastReview = &reviewed

	days := s.Interval(0)
	if correct {
		word.RepetitionCount++
		days = s.Interval(word.RepetitionCount)
		if s.LearnedThreshold > 0 && word.RepetitionCount >= s.LearnedThreshold {
			word.IsLearned = true
		}
	}

	next := now.AddDate(0, 0, days)
	word.NextReview = &next
}
