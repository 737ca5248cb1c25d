package models

import "strings"

// Language is a two-letter code of a supported language
type Language string

const (
	LangRU Language = "ru"
	LangEN Language = "en"
	LangZH Language = "zh"
)

// UILanguages lists languages the bot can talk in
var UILanguages = []Language{LangRU, LangEN, LangZH}

// TargetLanguages lists languages a user can learn
var TargetLanguages = []Language{LangEN, LangZH}

var nativeNames = map[Language]string{
	LangRU: "Русский",
	LangEN: "English",
	LangZH: "中文",
}

// ParseLanguage accepts a language code or its native name
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for lang, name := range nativeNames {
		if strings.EqualFold(s, string(lang)) || s == name {
			return lang, true
		}
	}
	return "", false
}

// Valid reports whether the language is one of the supported ones
func (l Language) Valid() bool {
	_, ok := nativeNames[l]
	return ok
}

// IsTarget reports whether the language can be learned
func (l Language) IsTarget() bool {
	for _, t := range TargetLanguages {
		if t == l {
			return true
		}
	}
	return false
}

// NativeName returns the name of the language written in that language
func (l Language) NativeName() string {
	if name, ok := nativeNames[l]; ok {
		return name
	}
	return string(l)
}
