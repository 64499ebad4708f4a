// Package engine is the conversation state machine. It turns inbound text and
// scheduler ticks into registry mutations and outbound Directives; it never
// talks to the transport itself.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/sovetnikUSSR/bot-smotry/internal/clock"
	"github.com/sovetnikUSSR/bot-smotry/internal/content"
	"github.com/sovetnikUSSR/bot-smotry/internal/domain"
	"github.com/sovetnikUSSR/bot-smotry/internal/store"
)

// EscalationStreak is the streak length at which the escalation offer is made.
const EscalationStreak = 3

// Engine holds the collaborators every transition needs.
type Engine struct {
	reg     *store.Registry
	pool    *content.Pool
	clock   clock.Clock
	contact string
	log     *zap.Logger
}

// New creates an Engine. contact is the handle shown to users who ask for a human.
func New(reg *store.Registry, pool *content.Pool, clk clock.Clock, contact string, log *zap.Logger) *Engine {
	return &Engine{reg: reg, pool: pool, clock: clk, contact: contact, log: log}
}

// HandleText handles one inbound message from chatID.
func (e *Engine) HandleText(chatID int64, raw string) []Directive {
	msg := strings.TrimSpace(raw)
	if isStart(msg) {
		return e.start(chatID)
	}

	u, ok := e.reg.Get(chatID)
	if !ok {
		return []Directive{text(enrollFirstText)}
	}
	switch u.Phase {
	case domain.PhaseAwaitingWindow:
		return e.submitWindow(chatID, msg)
	case domain.PhaseActive:
		return e.reply(chatID, domain.ParseIntent(msg))
	default:
		return nil
	}
}

func isStart(msg string) bool {
	return strings.HasPrefix(msg, "/start")
}

// start (re)enrolls chatID; any previous window and streak are discarded.
func (e *Engine) start(chatID int64) []Directive {
	e.reg.Upsert(domain.NewAwaiting(chatID))
	e.log.Info("enrollment started", zap.Int64("chatID", chatID))

	d := text(fmt.Sprintf(startText, zoneLabel(e.clock.Now())))
	d.Keyboard.Remove = true
	return []Directive{d}
}

func (e *Engine) submitWindow(chatID int64, msg string) []Directive {
	w, err := domain.ParseWindow(msg)
	if err != nil {
		e.log.Debug("window rejected", zap.Int64("chatID", chatID), zap.Error(err))
		return []Directive{text(invalidWindow)}
	}

	now := e.clock.Now()
	u := domain.NewAwaiting(chatID)
	u.Activate(w, civil.DateOf(now))
	e.reg.Upsert(u)
	e.log.Info("user activated", zap.Int64("chatID", chatID), zap.Stringer("window", w))

	out := []Directive{text(windowSetText(w, now))}
	if w.Contains(now.Hour()) {
		out = append(out, e.Dispatch(chatID, now.Hour())...)
	}
	return out
}

func (e *Engine) reply(chatID int64, intent domain.Intent) []Directive {
	switch intent {
	case domain.IntentContinue:
		return e.continueStreak(chatID)

	case domain.IntentDecline:
		e.reg.Delete(chatID)
		e.log.Info("user declined", zap.Int64("chatID", chatID))
		return []Directive{text(farewellText)}

	case domain.IntentTalkToHuman:
		e.reg.Delete(chatID)
		e.log.Info("user escalated to human", zap.Int64("chatID", chatID))
		return []Directive{text(fmt.Sprintf(contactFmt, e.contact))}

	case domain.IntentStay:
		if !e.reg.Update(chatID, func(u *domain.User) { u.Streak = 0 }) {
			return []Directive{text(enrollFirstText)}
		}
		return []Directive{text(stayText)}

	default:
		// Unrecognized text while active is ignored.
		return nil
	}
}

func (e *Engine) continueStreak(chatID int64) []Directive {
	today := clock.Today(e.clock)
	var streak int
	ok := e.reg.Update(chatID, func(u *domain.User) {
		u.LastActionDay = today
		u.Streak++
		streak = u.Streak
	})
	if !ok {
		return []Directive{text(enrollFirstText)}
	}

	out := []Directive{text(continueText)}
	// Offered once, when the streak first reaches the threshold.
	if streak == EscalationStreak {
		out = append(out, textWithButtons(escalationText, domain.LabelTalkToHuman, domain.LabelStay))
		e.log.Info("escalation offered", zap.Int64("chatID", chatID), zap.Int("streak", streak))
	}
	return out
}

// Dispatch is the tick path: if chatID is active and hour lies in its window,
// it picks a question and an unused image, records the image, and returns the
// photo directive; on the window's last hour the continuation prompt follows.
// A user deleted or not due returns nil.
func (e *Engine) Dispatch(chatID int64, hour int) []Directive {
	question := e.pool.RandomQuestion()

	var (
		image string
		due   bool
		last  bool
	)
	e.reg.Update(chatID, func(u *domain.User) {
		if !u.DueAt(hour) {
			return
		}
		due = true
		image, u.UsedImages = e.pool.PickImage(u.UsedImages)
		last = u.Window.IsLastHour(hour)
	})
	if !due {
		return nil
	}

	out := []Directive{photo(image, question)}
	if last {
		out = append(out, textWithButtons(continuePrompt, domain.LabelYes, domain.LabelNo))
	}
	return out
}

// DeliverEnrolled is Deliver that stops as soon as chatID is no longer
// enrolled, so a user who replied "нет" mid-pass is not messaged further.
func (e *Engine) DeliverEnrolled(s Sender, chatID int64, ds []Directive) error {
	var errs []error
	for i, d := range ds {
		if !e.reg.Has(chatID) {
			e.log.Debug("user left mid-delivery", zap.Int64("chatID", chatID), zap.Int("skipped", len(ds)-i))
			break
		}
		if err := send(s, chatID, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
