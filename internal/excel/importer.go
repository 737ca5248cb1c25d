package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/phrasebot/internal/logger"
	"github.com/example/phrasebot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// LessonStore is where imported lessons and phrases are written
type LessonStore interface {
	LessonByTitle(ctx context.Context, title string) (*models.Lesson, error)
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	FindPhrase(ctx context.Context, lessonID int64, textEN string) (*models.Phrase, error)
	CreatePhrase(ctx context.Context, phrase *models.Phrase) error
	UpdatePhrase(ctx context.Context, phrase *models.Phrase) error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	LessonColumn     string // Column with the lesson title
	RussianColumn    string
	EnglishColumn    string
	ChineseColumn    string
	CategoryColumn   string
	ExampleColumn    string // Column with the usage example
	DifficultyColumn string // Difficulty of a new lesson, 1-5
	SheetName        string // Name of the sheet to import
	StartRow         int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		LessonColumn:     "A",
		RussianColumn:    "B",
		EnglishColumn:    "C",
		ChineseColumn:    "D",
		CategoryColumn:   "E",
		ExampleColumn:    "F",
		DifficultyColumn: "G",
		SheetName:        "Sheet1",
		StartRow:         2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	LessonsCreated int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// Importer loads lessons and phrases from spreadsheets
type Importer struct {
	store LessonStore
	log   *logger.Logger
}

// NewImporter creates a new importer
func NewImporter(store LessonStore, log *logger.Logger) *Importer {
	return &Importer{store: store, log: log.With("component", "importer")}
}

// rowData is one parsed spreadsheet row
type rowData struct {
	lesson     string
	ru, en, zh string
	category   string
	example    string
	difficulty string
}

// run holds per-import state
type run struct {
	config        ImportConfig
	result        *ImportResult
	lessons       map[string]int64
	currentLesson string
}

// Import imports lessons and phrases from an Excel or CSV file
func (im *Importer) Import(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".csv":
		rows, err = readCSV(config.FilePath)
	default:
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	r := &run{
		config:  config,
		result:  &ImportResult{Errors: make([]string, 0)},
		lessons: make(map[string]int64),
	}

	for i, row := range rows {
		rowNum := i + 1
		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}
		if err := ctx.Err(); err != nil {
			return r.result, err
		}

		data := r.parse(row)
		if data.isEmpty() {
			continue
		}
		// Строка только с названием урока задаёт урок для следующих строк
		if data.isLessonHeader() {
			r.currentLesson = data.lesson
			continue
		}

		r.result.TotalProcessed++
		if err := im.processRow(ctx, r, data); err != nil {
			if errors.Is(err, models.ErrPersistence) {
				return r.result, err
			}
			r.result.Skipped++
			r.result.Errors = append(r.result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	im.log.Info("import finished",
		"file", config.FilePath,
		"processed", r.result.TotalProcessed,
		"lessons_created", r.result.LessonsCreated,
		"created", r.result.Created,
		"updated", r.result.Updated,
		"skipped", r.result.Skipped,
	)
	return r.result, nil
}

// readExcel reads all rows of a sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV reads all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *run) parse(row []string) rowData {
	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
			return strings.TrimSpace(strings.Trim(row[idx], "\""))
		}
		return ""
	}
	return rowData{
		lesson:     cell(r.config.LessonColumn),
		ru:         cell(r.config.RussianColumn),
		en:         cleanWord(cell(r.config.EnglishColumn)),
		zh:         cell(r.config.ChineseColumn),
		category:   cell(r.config.CategoryColumn),
		example:    cell(r.config.ExampleColumn),
		difficulty: cell(r.config.DifficultyColumn),
	}
}

func (d rowData) isEmpty() bool {
	return d.lesson == "" && d.ru == "" && d.en == "" && d.zh == ""
}

func (d rowData) isLessonHeader() bool {
	return d.lesson != "" && d.ru == "" && d.en == "" && d.zh == ""
}

// processRow creates or updates the phrase of one row
func (im *Importer) processRow(ctx context.Context, r *run, data rowData) error {
	if data.lesson == "" {
		data.lesson = r.currentLesson
	} else {
		r.currentLesson = data.lesson
	}
	if data.lesson == "" {
		return errors.New("lesson cannot be empty")
	}
	if data.en == "" {
		return errors.New("english text cannot be empty")
	}
	if data.ru == "" {
		return errors.New("russian text cannot be empty")
	}

	lessonID, err := im.getOrCreateLesson(ctx, r, data)
	if err != nil {
		return err
	}

	existing, err := im.store.FindPhrase(ctx, lessonID, data.en)
	switch {
	case err == nil:
		existing.TextRU = data.ru
		if data.zh != "" {
			existing.TextZH = data.zh
		}
		if data.category != "" {
			existing.Category = data.category
		}
		if data.example != "" {
			existing.UsageExample = data.example
		}
		if err := im.store.UpdatePhrase(ctx, existing); err != nil {
			return err
		}
		r.result.Updated++
		return nil
	case errors.Is(err, models.ErrNotFound):
	default:
		return err
	}

	phrase := &models.Phrase{
		LessonID:     lessonID,
		TextRU:       data.ru,
		TextEN:       data.en,
		TextZH:       data.zh,
		Category:     data.category,
		UsageExample: data.example,
	}
	if err := im.store.CreatePhrase(ctx, phrase); err != nil {
		return err
	}
	r.result.Created++
	return nil
}

// getOrCreateLesson gets a lesson by title or creates a new one if it doesn't exist
func (im *Importer) getOrCreateLesson(ctx context.Context, r *run, data rowData) (int64, error) {
	key := strings.ToLower(data.lesson)
	if id, ok := r.lessons[key]; ok {
		return id, nil
	}

	lesson, err := im.store.LessonByTitle(ctx, data.lesson)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		lesson = &models.Lesson{
			Title:           data.lesson,
			DifficultyLevel: parseIntOrDefault(data.difficulty, 1, 5, 1),
		}
		if err := im.store.CreateLesson(ctx, lesson); err != nil {
			return 0, err
		}
		r.result.LessonsCreated++
	default:
		return 0, err
	}

	r.lessons[key] = lesson.ID
	return lesson.ID, nil
}

// cleanWord удаляет из слова дополнительную информацию в скобках
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	idx, err := excelize.ColumnNameToNumber(strings.ToUpper(column))
	if err != nil {
		return -1
	}
	return idx - 1
}

// Helper function to parse integer with default value
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
