package engine

import (
	"fmt"
	"time"

	"github.com/sovetnikUSSR/bot-smotry/internal/domain"
)

// UI texts in Russian
const (
	startText       = "Привет! Я бот-наблюдатель от Артёма Волкова.\nУкажи интервал времени (по %s), когда хочешь получать напоминания.\nФормат: ЧЧ-ЧЧ (например: 9-20)"
	invalidWindow   = "Неверный формат. Пример: 9-20"
	windowSetFmt    = "Отлично! Буду присылать напоминания с %d:00 до %d:00 по %s.\nСегодня же — в ближайший час."
	enrollFirstText = "Для начала настрой интервал, отправив /start"
	continueText    = "Отлично! Завтра напомню в то же время."
	escalationText  = "Ты уже 3 дня с нами! Хочешь обсудить, как перейти к следующему шагу?"
	farewellText    = "Спасибо за участие! Если захочешь вернуться — просто напиши /start."
	contactFmt      = "Отлично! Напиши Артёму в Telegram: %s"
	stayText        = "Продолжаю присылать напоминания. Увидимся завтра!"
	continuePrompt  = "Завтра в это же время?"
	statusFmt       = "📊 Лог бота-наблюдателя:\nВсего активных: %d\nОжидают интервал: %d\nВремя: %s %s"
)

// zoneLabel names the timezone of t the way users see it.
func zoneLabel(t time.Time) string {
	if t.Location().String() == "Europe/Moscow" {
		return "МСК"
	}
	return t.Format("MST")
}

func windowSetText(w domain.Window, now time.Time) string {
	return fmt.Sprintf(windowSetFmt, w.Start, w.End, zoneLabel(now))
}

// StatusReport renders the hourly operator report.
func StatusReport(active, awaiting int, now time.Time) string {
	return fmt.Sprintf(statusFmt, active, awaiting, now.Format("2006-01-02 15:04"), zoneLabel(now))
}
