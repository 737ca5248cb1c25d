package i18n

import (
	"testing"

	"github.com/example/phrasebot/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestEveryLanguageHasCompleteLabels(t *testing.T) {
	for _, lang := range models.UILanguages {
		l := LabelsFor(lang)
		seen := map[string]bool{}
		for a := ActionNext; a <= ActionMainMenu; a++ {
			text := l.Label(a)
			assert.NotEmpty(t, text, "%s action %d", lang, a)
			assert.False(t, seen[text], "%s duplicate label %q", lang, text)
			seen[text] = true
		}
	}
}

func TestActionOfRecognisesAllLanguages(t *testing.T) {
	for _, lang := range models.UILanguages {
		l := LabelsFor(lang)
		assert.Equal(t, ActionMainMenu, ActionOf(l.MainMenu))
		assert.Equal(t, ActionNext, ActionOf(l.Next))
		assert.Equal(t, ActionSelectUI, ActionOf(l.SelectUI))
	}
	assert.Equal(t, ActionNone, ActionOf("hello"))
	assert.Equal(t, ActionNone, ActionOf(""))
}

func TestLabelsArePureFunctionOfLanguage(t *testing.T) {
	ru := LabelsFor(models.LangRU)
	en := LabelsFor(models.LangEN)
	assert.NotEqual(t, ru.Next, en.Next)
	assert.Equal(t, ru, LabelsFor(models.LangRU))
	assert.Equal(t, ru, LabelsFor("xx"))
}

func TestWelcome(t *testing.T) {
	m := MessagesFor(models.LangEN)

	text := m.Welcome(models.UserStats{}, models.LangEN)
	assert.Contains(t, text, "Words in vocabulary: 0")
	assert.Contains(t, text, "Current lesson: none")

	text = m.Welcome(models.UserStats{WordCount: 5, LearnedWords: 2, CurrentLessonTitle: "Food"}, models.LangZH)
	assert.Contains(t, text, "Words in vocabulary: 5, learned: 2")
	assert.Contains(t, text, "中文")
	assert.Contains(t, text, "Food")
}

func TestFormattedMessages(t *testing.T) {
	m := MessagesFor(models.LangRU)
	assert.Contains(t, m.Correct("cat", "кошка"), "cat -> кошка")
	assert.Contains(t, m.LessonSelected("Еда", 5), "5")
	assert.Contains(t, m.Reminder(3), "3")
	assert.Contains(t, m.LanguageSet(models.LangEN), "English")
}
