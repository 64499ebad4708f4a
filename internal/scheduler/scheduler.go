package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sovetnikUSSR/bot-smotry/internal/clock"
	"github.com/sovetnikUSSR/bot-smotry/internal/engine"
	"github.com/sovetnikUSSR/bot-smotry/internal/store"
)

// Specs are the five-field cron expressions for the three triggers.
type Specs struct {
	Dispatch string
	Report   string
	Reset    string
}

// Scheduler fires the hourly dispatch, the hourly operator report and the
// daily reset, all in the clock's timezone.
type Scheduler struct {
	reg      *store.Registry
	eng      *engine.Engine
	sender   engine.Sender
	clock    clock.Clock
	operator int64
	log      *zap.Logger
	cron     *cron.Cron
}

// New registers the three triggers on a cron runner pinned to the clock's
// timezone.
// Nothing runs until Start.
func New(
	reg *store.Registry,
	eng *engine.Engine,
	sender engine.Sender,
	clk clock.Clock,
	operator int64,
	specs Specs,
	log *zap.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		reg:      reg,
		eng:      eng,
		sender:   sender,
		clock:    clk,
		operator: operator,
		log:      log,
	}

	cl := cronLogger{log.Sugar()}
	s.cron = cron.New(
		cron.WithLocation(clk.Now().Location()),
		cron.WithLogger(cl),
		// A trigger that is still running (e.g. a slow dispatch) is skipped, not stacked.
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	jobs := []struct {
		name string
		spec string
		fn   func()
	}{
		{"dispatch", specs.Dispatch, s.DispatchHour},
		{"report", specs.Report, s.ReportStatus},
		{"reset", specs.Reset, s.ResetDaily},
	}
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.spec, j.fn); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", j.name, j.spec, err)
		}
	}
	return s, nil
}

// Start begins firing triggers in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop prevents new runs and waits for running ones or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out", zap.Error(ctx.Err()))
	}
}

// DispatchHour sends the hourly check-in to every active user whose window
// covers the current hour. It works from a snapshot; each user is re-read at
// the moment it is processed, and one user's delivery failure does not affect
// the others.
func (s *Scheduler) DispatchHour() {
	hour := clock.Hour(s.clock)
	pass := uuid.NewString()
	log := s.log.With(zap.String("pass", pass), zap.Int("hour", hour))

	var sent, failed int
	for _, u := range s.reg.Snapshot() {
		if !u.DueAt(hour) {
			continue
		}
		ds := s.eng.Dispatch(u.ChatID, hour)
		if len(ds) == 0 {
			// Deleted or changed since the snapshot.
			continue
		}
		if err := s.eng.DeliverEnrolled(s.sender, u.ChatID, ds); err != nil {
			failed++
			log.Error("dispatch delivery failed", zap.Int64("chatID", u.ChatID), zap.Error(err))
			continue
		}
		sent++
	}
	log.Info("dispatch pass done", zap.Int("sent", sent), zap.Int("failed", failed))
}

// ReportStatus sends the enrolled-user counts to the operator.
func (s *Scheduler) ReportStatus() {
	total, active := s.reg.Counts()
	body := engine.StatusReport(active, total-active, s.clock.Now())
	if err := s.sender.SendText(s.operator, body, engine.Keyboard{}); err != nil {
		s.log.Error("status report failed", zap.Int64("chatID", s.operator), zap.Error(err))
		return
	}
	s.log.Info("status report sent", zap.Int("total", total), zap.Int("active", active))
}

// ResetDaily clears every user's used-images set. Streaks are untouched.
func (s *Scheduler) ResetDaily() {
	n := s.reg.ResetUsedImages()
	s.log.Info("daily image reset", zap.Int("users", n), zap.Stringer("day", clock.Today(s.clock)))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
