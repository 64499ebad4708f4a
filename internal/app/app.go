package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sovetnikUSSR/bot-smotry/assets"
	"github.com/sovetnikUSSR/bot-smotry/internal/clock"
	"github.com/sovetnikUSSR/bot-smotry/internal/config"
	"github.com/sovetnikUSSR/bot-smotry/internal/content"
	"github.com/sovetnikUSSR/bot-smotry/internal/engine"
	"github.com/sovetnikUSSR/bot-smotry/internal/httpapi"
	"github.com/sovetnikUSSR/bot-smotry/internal/scheduler"
	"github.com/sovetnikUSSR/bot-smotry/internal/store"
	"github.com/sovetnikUSSR/bot-smotry/internal/telegram"
)

// pollTimeout is the long-poll duration for getUpdates, in seconds.
const pollTimeout = 30

type App struct {
	cfg     config.Config
	log     *zap.Logger
	poller  *tgbotapi.BotAPI
	httpSrv *http.Server
	router  *telegram.Router
	sched   *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	clk, err := clock.New(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}

	images, err := content.LoadImages(cfg.ImagesPath)
	if err != nil {
		return nil, err
	}
	pool, err := content.NewPool(assets.Questions(), images, nil)
	if err != nil {
		return nil, err
	}
	log.Info("content loaded", zap.Int("images", len(images)), zap.String("path", cfg.ImagesPath))

	// Sends are bounded by SendTimeout; long polling needs its own, longer client.
	sender, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint,
		&http.Client{Timeout: cfg.SendTimeout})
	if err != nil {
		return nil, err
	}
	poller, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint,
		&http.Client{Timeout: (pollTimeout + 10) * time.Second})
	if err != nil {
		return nil, err
	}

	reg := store.NewRegistry()
	eng := engine.New(reg, pool, clk, cfg.HumanContact, log)
	router := telegram.NewRouter(sender, log, eng)

	sched, err := scheduler.New(reg, eng, router, clk, cfg.OperatorChatID, scheduler.Specs{
		Dispatch: cfg.DispatchCron,
		Report:   cfg.ReportCron,
		Reset:    cfg.ResetCron,
	}, log)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.New(reg),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, poller: poller, httpSrv: srv, router: router, sched: sched}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting bot-smotry",
		zap.String("bot", a.poller.Self.UserName),
		zap.String("tz", a.cfg.Timezone),
		zap.String("http", a.cfg.HTTPAddr),
	)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	a.sched.Start()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updCh := a.poller.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.poller.StopReceivingUpdates()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			a.sched.Stop(shCtx)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
