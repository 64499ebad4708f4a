package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sovetnikUSSR/bot-smotry/internal/engine"
)

// Bot is the slice of *tgbotapi.BotAPI the router uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Router feeds Telegram updates into the engine and delivers its directives.
type Router struct {
	bot Bot
	log *zap.Logger
	eng *engine.Engine
}

// NewRouter creates a new Telegram router.
func NewRouter(bot Bot, log *zap.Logger, eng *engine.Engine) *Router {
	return &Router{bot: bot, log: log, eng: eng}
}

// HandleUpdate routes a single update. Only text messages matter; everything
// else (stickers, edits, callbacks) is ignored.
func (r *Router) HandleUpdate(_ context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID

	ds := r.eng.HandleText(chatID, msg.Text)
	if err := engine.Deliver(r, chatID, ds); err != nil {
		r.log.Error("reply delivery failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// SendPhoto sends an image with a caption.
// Together with SendText this makes Router satisfy engine.Sender.
func (r *Router) SendPhoto(chatID int64, image, caption string) error {
	p := tgbotapi.NewPhoto(chatID, photoFile(image))
	p.Caption = caption
	_, err := r.bot.Send(p)
	return err
}

// SendText sends a plain text message with optional reply keyboard.
func (r *Router) SendText(chatID int64, text string, kb engine.Keyboard) error {
	m := tgbotapi.NewMessage(chatID, text)
	if markup := replyMarkup(kb); markup != nil {
		m.ReplyMarkup = markup
	}
	_, err := r.bot.Send(m)
	return err
}
