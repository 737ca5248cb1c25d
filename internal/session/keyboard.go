package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/phrasebot/internal/cards"
	"github.com/example/phrasebot/internal/i18n"
	"github.com/example/phrasebot/pkg/models"
)

const currentMark = "✓ "

func mainKeyboard(lang models.Language) [][]string {
	l := i18n.LabelsFor(lang)
	return [][]string{
		{l.Next},
		{l.AddWord, l.DeleteWord},
		{l.SelectLesson},
		{l.SelectTarget, l.SelectUI},
		{l.MainMenu},
	}
}

func cardKeyboard(lang models.Language, card *cards.Card) [][]string {
	l := i18n.LabelsFor(lang)
	var rows [][]string
	for i := 0; i < len(card.Options); i += 2 {
		end := i + 2
		if end > len(card.Options) {
			end = len(card.Options)
		}
		rows = append(rows, append([]string(nil), card.Options[i:end]...))
	}
	return append(rows,
		[]string{l.Next, l.AddWord, l.DeleteWord},
		[]string{l.MainMenu},
	)
}

func feedbackKeyboard(lang models.Language, correct bool) [][]string {
	l := i18n.LabelsFor(lang)
	if correct {
		return [][]string{{l.Next}, {l.DeleteWord}, {l.MainMenu}}
	}
	return [][]string{{l.Next}, {l.AddWord}, {l.MainMenu}}
}

func lessonKeyboard(user *models.User, lessons []models.Lesson) [][]string {
	rows := make([][]string, 0, len(lessons)+1)
	for _, lesson := range lessons {
		rows = append(rows, []string{lessonLabel(user, lesson)})
	}
	return append(rows, []string{i18n.LabelsFor(user.UILanguage).MainMenu})
}

func languageKeyboard(lang models.Language, langs []models.Language) [][]string {
	rows := make([][]string, 0, len(langs)+1)
	for _, l := range langs {
		rows = append(rows, []string{l.NativeName()})
	}
	return append(rows, []string{i18n.LabelsFor(lang).MainMenu})
}

// lessonLabel renders "<id>: <title>", marking the user's current lesson
func lessonLabel(user *models.User, lesson models.Lesson) string {
	label := fmt.Sprintf("%d: %s", lesson.ID, lesson.Title)
	if user.CurrentLessonID != nil && *user.CurrentLessonID == lesson.ID {
		label = currentMark + label
	}
	return label
}

// matchLesson finds the lesson a reply refers to, by label, bare id or title
func matchLesson(lessons []models.Lesson, text string) *models.Lesson {
	text = strings.TrimSpace(strings.TrimPrefix(text, currentMark))

	idPart := text
	if i := strings.Index(text, ":"); i > 0 {
		idPart = text[:i]
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64); err == nil {
		for i := range lessons {
			if lessons[i].ID == id {
				return &lessons[i]
			}
		}
		return nil
	}

	for i := range lessons {
		if strings.EqualFold(lessons[i].Title, text) {
			return &lessons[i]
		}
	}
	return nil
}
