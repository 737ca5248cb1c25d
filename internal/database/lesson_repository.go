package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/phrasebot/pkg/models"
	"github.com/jmoiron/sqlx"
)

var (
	lessonColumns = []string{"id", "title", "description", "difficulty_level", "created_at"}
	phraseColumns = []string{"id", "lesson_id", "text_ru", "text_en", "text_zh", "category", "usage_example"}
)

// LessonRepository gives read access to lessons and phrases, plus the writes used by the importer
type LessonRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewLessonRepository creates a new repository instance
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db, sb: builder(db)}
}

// Lessons returns all lessons ordered by id
func (r *LessonRepository) Lessons(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	q := r.sb.Select(lessonColumns...).From("lessons").OrderBy("id")
	if err := selectContext(ctx, r.db, &lessons, q); err != nil {
		return nil, mapError("failed to get lessons", err)
	}
	return lessons, nil
}

// LessonByID returns a lesson or ErrNotFound
func (r *LessonRepository) LessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	var lesson models.Lesson
	q := r.sb.Select(lessonColumns...).From("lessons").Where(sq.Eq{"id": id})
	if err := getContext(ctx, r.db, &lesson, q); err != nil {
		return nil, mapError(fmt.Sprintf("failed to get lesson %d", id), err)
	}
	return &lesson, nil
}

// LessonByTitle returns a lesson with exactly this title or ErrNotFound
func (r *LessonRepository) LessonByTitle(ctx context.Context, title string) (*models.Lesson, error) {
	var lesson models.Lesson
	q := r.sb.Select(lessonColumns...).From("lessons").Where(sq.Eq{"title": title})
	if err := getContext(ctx, r.db, &lesson, q); err != nil {
		return nil, mapError(fmt.Sprintf("failed to get lesson %q", title), err)
	}
	return &lesson, nil
}

// CreateLesson inserts a lesson and fills its ID
func (r *LessonRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	if lesson.DifficultyLevel < 1 {
		lesson.DifficultyLevel = 1
	}
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	q := r.sb.Insert("lessons").
		Columns("title", "description", "difficulty_level", "created_at").
		Values(lesson.Title, lesson.Description, lesson.DifficultyLevel, lesson.CreatedAt).
		Suffix("RETURNING id")
	if err := getContext(ctx, r.db, &lesson.ID, q); err != nil {
		return mapError("failed to create lesson", err)
	}
	return nil
}

// PhrasesInLesson returns the phrases of a lesson; ErrNotFound if the lesson does not exist
func (r *LessonRepository) PhrasesInLesson(ctx context.Context, lessonID int64) ([]models.Phrase, error) {
	var phrases []models.Phrase
	q := r.sb.Select(phraseColumns...).From("phrases").Where(sq.Eq{"lesson_id": lessonID}).OrderBy("id")
	if err := selectContext(ctx, r.db, &phrases, q); err != nil {
		return nil, mapError(fmt.Sprintf("failed to get phrases of lesson %d", lessonID), err)
	}

	if len(phrases) == 0 {
		if _, err := r.LessonByID(ctx, lessonID); err != nil {
			return nil, err
		}
	}
	return phrases, nil
}

// AllPhrases returns every phrase
func (r *LessonRepository) AllPhrases(ctx context.Context) ([]models.Phrase, error) {
	var phrases []models.Phrase
	q := r.sb.Select(phraseColumns...).From("phrases").OrderBy("id")
	if err := selectContext(ctx, r.db, &phrases, q); err != nil {
		return nil, mapError("failed to get phrases", err)
	}
	return phrases, nil
}

// PhraseByID returns a phrase or ErrNotFound
func (r *LessonRepository) PhraseByID(ctx context.Context, id int64) (*models.Phrase, error) {
	var phrase models.Phrase
	q := r.sb.Select(phraseColumns...).From("phrases").Where(sq.Eq{"id": id})
	if err := getContext(ctx, r.db, &phrase, q); err != nil {
		return nil, mapError(fmt.Sprintf("failed to get phrase %d", id), err)
	}
	return &phrase, nil
}

// FindPhrase looks a phrase up by lesson and English text, case-insensitively
func (r *LessonRepository) FindPhrase(ctx context.Context, lessonID int64, textEN string) (*models.Phrase, error) {
	var phrase models.Phrase
	q := r.sb.Select(phraseColumns...).From("phrases").
		Where(sq.Eq{"lesson_id": lessonID}).
		Where(sq.Expr("LOWER(text_en) = LOWER(?)", textEN)).
		Limit(1)
	if err := getContext(ctx, r.db, &phrase, q); err != nil {
		return nil, mapError(fmt.Sprintf("failed to find phrase %q", textEN), err)
	}
	return &phrase, nil
}

// CreatePhrase inserts a phrase and fills its ID
func (r *LessonRepository) CreatePhrase(ctx context.Context, phrase *models.Phrase) error {
	q := r.sb.Insert("phrases").
		Columns("lesson_id", "text_ru", "text_en", "text_zh", "category", "usage_example").
		Values(phrase.LessonID, phrase.TextRU, phrase.TextEN, phrase.TextZH, phrase.Category, phrase.UsageExample).
		Suffix("RETURNING id")
	if err := getContext(ctx, r.db, &phrase.ID, q); err != nil {
		return mapError("failed to create phrase", err)
	}
	return nil
}

// UpdatePhrase overwrites the texts of an existing phrase
func (r *LessonRepository) UpdatePhrase(ctx context.Context, phrase *models.Phrase) error {
	q := r.sb.Update("phrases").
		Set("text_ru", phrase.TextRU).
		Set("text_en", phrase.TextEN).
		Set("text_zh", phrase.TextZH).
		Set("category", phrase.Category).
		Set("usage_example", phrase.UsageExample).
		Where(sq.Eq{"id": phrase.ID})
	res, err := execContext(ctx, r.db, q)
	if err != nil {
		return mapError("failed to update phrase", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to update phrase %d: %w", phrase.ID, models.ErrNotFound)
	}
	return nil
}
