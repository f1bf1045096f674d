package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trainerbot/models"
)

// Main menu button labels.
const (
	BtnGetTask = "📚 Получить задачу"
	BtnStats   = "📊 Моя статистика"
	BtnRating  = "🏆 Рейтинг"
)

// MainKeyboard is the top-level reply menu.
func MainKeyboard() *tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnGetTask)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnStats)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnRating)),
	)
	return &kb
}

// DifficultyKeyboard offers one button per difficulty tier.
func DifficultyKeyboard() *tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(models.Difficulties))
	for _, d := range models.Difficulties {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(d)))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	return &kb
}
