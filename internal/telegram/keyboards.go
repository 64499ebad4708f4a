package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sovetnikUSSR/bot-smotry/internal/engine"
)

// replyMarkup converts an engine keyboard into Telegram reply markup.
// All buttons share one row. nil means "leave the current keyboard".
func replyMarkup(kb engine.Keyboard) interface{} {
	if kb.Remove {
		return tgbotapi.NewRemoveKeyboard(false)
	}
	if len(kb.Buttons) == 0 {
		return nil
	}
	row := make([]tgbotapi.KeyboardButton, 0, len(kb.Buttons))
	for _, b := range kb.Buttons {
		row = append(row, tgbotapi.NewKeyboardButton(b))
	}
	markup := tgbotapi.NewReplyKeyboard(row)
	markup.ResizeKeyboard = true
	return markup
}

// photoFile picks how Telegram should fetch an image reference:
// http(s) links by URL, anything else as an already-uploaded file id.
func photoFile(ref string) tgbotapi.RequestFileData {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tgbotapi.FileURL(ref)
	}
	return tgbotapi.FileID(ref)
}
