package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// createKeyboard creates a reply keyboard from rows of button labels
func createKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	var keyboard [][]tgbotapi.KeyboardButton
	for _, row := range rows {
		var keyboardRow []tgbotapi.KeyboardButton
		for _, label := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewKeyboardButton(label))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewReplyKeyboard(keyboard...)
}
