// Package i18n holds the button labels and message texts of the bot in every UI language.
package i18n

import (
	"fmt"

	"github.com/example/phrasebot/pkg/models"
)

// Action is a menu button the user can press
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionAddWord
	ActionDeleteWord
	ActionSelectLesson
	ActionSelectTarget
	ActionSelectUI
	ActionMainMenu
)

// Labels are the button texts of one language
type Labels struct {
	Next         string
	AddWord      string
	DeleteWord   string
	SelectLesson string
	SelectTarget string
	SelectUI     string
	MainMenu     string
}

// Label returns the text of an action's button
func (l Labels) Label(a Action) string {
	switch a {
	case ActionNext:
		return l.Next
	case ActionAddWord:
		return l.AddWord
	case ActionDeleteWord:
		return l.DeleteWord
	case ActionSelectLesson:
		return l.SelectLesson
	case ActionSelectTarget:
		return l.SelectTarget
	case ActionSelectUI:
		return l.SelectUI
	case ActionMainMenu:
		return l.MainMenu
	default:
		return ""
	}
}

// Messages are the reply texts of one language
type Messages struct {
	welcome        string
	noLesson       string
	chooseLesson   string
	noLessons      string
	lessonSelected string
	chooseTarget   string
	chooseUI       string
	languageSet    string
	invalidChoice  string
	cardPrompt     string
	correct        string
	wrong          string
	emptyPool      string
	wordAdded      string
	allWordsAdded  string
	wordDeleted    string
	wordNotFound   string
	sessionStale   string
	failure        string
	menuHint       string
	reminder       string
}

var labels = map[models.Language]Labels{
	models.LangRU: {
		Next:         "Дальше ⏭",
		AddWord:      "Добавить слово ➕",
		DeleteWord:   "Удалить слово 🔙",
		SelectLesson: "Выбрать урок 📚",
		SelectTarget: "Изучаемый язык 🎯",
		SelectUI:     "Язык интерфейса 🌐",
		MainMenu:     "Главное меню 🏠",
	},
	models.LangEN: {
		Next:         "Next ⏭",
		AddWord:      "Add word ➕",
		DeleteWord:   "Delete word 🔙",
		SelectLesson: "Choose lesson 📚",
		SelectTarget: "Target language 🎯",
		SelectUI:     "Interface language 🌐",
		MainMenu:     "Main menu 🏠",
	},
	models.LangZH: {
		Next:         "下一个 ⏭",
		AddWord:      "添加单词 ➕",
		DeleteWord:   "删除单词 🔙",
		SelectLesson: "选择课程 📚",
		SelectTarget: "学习语言 🎯",
		SelectUI:     "界面语言 🌐",
		MainMenu:     "主菜单 🏠",
	},
}

var messages = map[models.Language]Messages{
	models.LangRU: {
		welcome:        "Привет! Давай учить слова.\nСлов в словаре: %d, выучено: %d\nИзучаемый язык: %s\nТекущий урок: %s",
		noLesson:       "не выбран",
		chooseLesson:   "Выберите урок:",
		noLessons:      "Уроков пока нет.",
		lessonSelected: "Выбран урок «%s». Добавлено новых слов: %d",
		chooseTarget:   "Выберите язык, который хотите изучать:",
		chooseUI:       "Выберите язык интерфейса:",
		languageSet:    "Язык установлен: %s",
		invalidChoice:  "Не понимаю этот выбор, попробуйте ещё раз.",
		cardPrompt:     "Выберите перевод слова:\n🇷🇺 %s",
		correct:        "Отлично! ❤ %s -> %s",
		wrong:          "Неверно. Правильно: %s -> %s",
		emptyPool:      "Нет слов для изучения. Выберите урок или добавьте слова.",
		wordAdded:      "Слово добавлено: %s -> %s",
		allWordsAdded:  "Все слова уже добавлены в ваш словарь.",
		wordDeleted:    "Слово удалено: %s",
		wordNotFound:   "Нет слова, которое можно удалить.",
		sessionStale:   "Сессия устарела, начинаем заново.",
		failure:        "Что-то пошло не так. Попробуйте ещё раз.",
		menuHint:       "Воспользуйтесь кнопками меню.",
		reminder:       "Пора повторить слова! Слов к повторению: %d",
	},
	models.LangEN: {
		welcome:        "Hi! Let's learn some words.\nWords in vocabulary: %d, learned: %d\nTarget language: %s\nCurrent lesson: %s",
		noLesson:       "none",
		chooseLesson:   "Choose a lesson:",
		noLessons:      "There are no lessons yet.",
		lessonSelected: "Lesson \"%s\" selected. New words added: %d",
		chooseTarget:   "Choose the language you want to learn:",
		chooseUI:       "Choose the interface language:",
		languageSet:    "Language set: %s",
		invalidChoice:  "I don't understand this choice, please try again.",
		cardPrompt:     "Choose the translation of:\n%s",
		correct:        "Great! ❤ %s -> %s",
		wrong:          "Wrong. Correct: %s -> %s",
		emptyPool:      "There is nothing to learn. Choose a lesson or add words.",
		wordAdded:      "Word added: %s -> %s",
		allWordsAdded:  "All words are already in your vocabulary.",
		wordDeleted:    "Word deleted: %s",
		wordNotFound:   "There is no word to delete.",
		sessionStale:   "The session is outdated, starting over.",
		failure:        "Something went wrong. Please try again.",
		menuHint:       "Please use the menu buttons.",
		reminder:       "Time to review! Words due: %d",
	},
	models.LangZH: {
		welcome:        "你好！我们来学单词吧。\n词汇量：%d，已掌握：%d\n学习语言：%s\n当前课程：%s",
		noLesson:       "未选择",
		chooseLesson:   "请选择课程：",
		noLessons:      "暂无课程。",
		lessonSelected: "已选择课程「%s」。新增单词：%d",
		chooseTarget:   "请选择要学习的语言：",
		chooseUI:       "请选择界面语言：",
		languageSet:    "语言已设置：%s",
		invalidChoice:  "无法识别该选项，请重试。",
		cardPrompt:     "请选择翻译：\n%s",
		correct:        "太棒了！❤ %s -> %s",
		wrong:          "错误。正确答案：%s -> %s",
		emptyPool:      "没有可学习的单词。请选择课程或添加单词。",
		wordAdded:      "已添加单词：%s -> %s",
		allWordsAdded:  "所有单词都已在你的词汇表中。",
		wordDeleted:    "已删除单词：%s",
		wordNotFound:   "没有可删除的单词。",
		sessionStale:   "会话已过期，重新开始。",
		failure:        "出了点问题，请重试。",
		menuHint:       "请使用菜单按钮。",
		reminder:       "该复习了！待复习单词：%d",
	},
}

// LabelsFor returns the button labels of a language, falling back to Russian
func LabelsFor(lang models.Language) Labels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[models.LangRU]
}

// MessagesFor returns the message texts of a language, falling back to Russian
func MessagesFor(lang models.Language) Messages {
	if m, ok := messages[lang]; ok {
		return m
	}
	return messages[models.LangRU]
}

// ActionOf recognises a button label of any language
func ActionOf(text string) Action {
	for _, l := range labels {
		for a := ActionNext; a <= ActionMainMenu; a++ {
			if l.Label(a) == text {
				return a
			}
		}
	}
	return ActionNone
}

func (m Messages) Welcome(stats models.UserStats, target models.Language) string {
	lesson := stats.CurrentLessonTitle
	if lesson == "" {
		lesson = m.noLesson
	}
	return fmt.Sprintf(m.welcome, stats.WordCount, stats.LearnedWords, target.NativeName(), lesson)
}

func (m Messages) ChooseLesson() string  { return m.chooseLesson }
func (m Messages) NoLessons() string     { return m.noLessons }
func (m Messages) ChooseTarget() string  { return m.chooseTarget }
func (m Messages) ChooseUI() string      { return m.chooseUI }
func (m Messages) InvalidChoice() string { return m.invalidChoice }
func (m Messages) EmptyPool() string     { return m.emptyPool }
func (m Messages) AllWordsAdded() string { return m.allWordsAdded }
func (m Messages) WordNotFound() string  { return m.wordNotFound }
func (m Messages) SessionStale() string  { return m.sessionStale }
func (m Messages) Failure() string       { return m.failure }
func (m Messages) MenuHint() string      { return m.menuHint }

func (m Messages) LessonSelected(title string, added int) string {
	return fmt.Sprintf(m.lessonSelected, title, added)
}

func (m Messages) LanguageSet(lang models.Language) string {
	return fmt.Sprintf(m.languageSet, lang.NativeName())
}

func (m Messages) CardPrompt(translation string) string {
	return fmt.Sprintf(m.cardPrompt, translation)
}

func (m Messages) Correct(target, translation string) string {
	return fmt.Sprintf(m.correct, target, translation)
}

func (m Messages) Wrong(target, translation string) string {
	return fmt.Sprintf(m.wrong, target, translation)
}

func (m Messages) WordAdded(target, translation string) string {
	return fmt.Sprintf(m.wordAdded, target, translation)
}

func (m Messages) WordDeleted(word string) string {
	return fmt.Sprintf(m.wordDeleted, word)
}

func (m Messages) Reminder(due int) string {
	return fmt.Sprintf(m.reminder, due)
}
