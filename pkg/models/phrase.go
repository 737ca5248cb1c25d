package models

// Phrase is a vocabulary item with parallel text in every supported language
type Phrase struct {
	ID           int64  `json:"id" db:"id"`
	LessonID     int64  `json:"lesson_id" db:"lesson_id"`
	TextRU       string `json:"text_ru" db:"text_ru"`
	TextEN       string `json:"text_en" db:"text_en"`
	TextZH       string `json:"text_zh" db:"text_zh"`
	Category     string `json:"category" db:"category"`
	UsageExample string `json:"usage_example" db:"usage_example"`
}

// Text returns the phrase text in the given language
func (p Phrase) Text(lang Language) string {
	switch lang {
	case LangRU:
		return p.TextRU
	case LangZH:
		return p.TextZH
	default:
		return p.TextEN
	}
}
