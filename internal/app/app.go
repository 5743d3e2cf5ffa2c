// Package app wires configuration, credentials and the polling loop into a
// runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"homeworkbot/internal/config"
	"homeworkbot/internal/eventbus"
	"homeworkbot/internal/notifier"
	"homeworkbot/internal/poller"
	"homeworkbot/internal/practicum"
	"homeworkbot/internal/runtime/supervisor"
	kit "homeworkbot/internal/transport"
	telegram "homeworkbot/internal/transport/telegram/adapter"
	logx "homeworkbot/pkg/logx"
	"homeworkbot/pkg/systemd"
)

// Options are the process-level inputs (flags and test hooks).
type Options struct {
	ConfigPath string
	// EnvFile is a dotenv file loaded before credentials are read.
	EnvFile         string
	EnvFileRequired bool

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// Sender replaces the Telegram adapter.
	Sender kit.Sender
	// TelegramAPIURL overrides the Bot API base URL.
	TelegramAPIURL string
}

type App struct {
	cfgm *config.ConfigManager
	sup  *supervisor.Supervisor

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus

	notif *notifier.Service
	loop  *poller.Loop
	sd    *systemd.Notifier
}

func NewApp(opts Options) (*App, error) {
	if err := config.LoadEnvFile(opts.EnvFile, opts.EnvFileRequired); err != nil {
		return nil, err
	}

	cfgm := config.NewConfigManager(opts.ConfigPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(mapLoggingConfig(cfg))
	appLog := log.With(logx.String("comp", "app"))

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	fail := func(err error) (*App, error) {
		_ = logSvc.Close()
		return nil, err
	}

	creds := config.LookupCredentials(getenv)
	if err := creds.Validate(appLog); err != nil {
		return fail(err)
	}

	apiCfg, err := mapReviewAPIConfig(cfg)
	if err != nil {
		return fail(err)
	}
	ncfg, err := mapNotifierConfig(cfg, creds)
	if err != nil {
		return fail(err)
	}
	popts, err := mapPollerOptions(cfg)
	if err != nil {
		return fail(err)
	}

	sender := opts.Sender
	if sender == nil {
		ad, err := telegram.New(telegram.Config{
			Token:   creds.TelegramToken,
			APIURL:  opts.TelegramAPIURL,
			Timeout: ncfg.SendTimeout,
		}, log.With(logx.String("comp", "telegram")))
		if err != nil {
			return fail(err)
		}
		sender = ad
	}

	notif := notifier.New(ncfg, sender, log.With(logx.String("comp", "notifier")))
	client := practicum.NewClient(creds.PracticumToken,
		practicum.WithEndpoint(apiCfg.Endpoint),
		practicum.WithTimeout(apiCfg.Timeout),
		practicum.WithLogger(log.With(logx.String("comp", "practicum"))),
	)

	bus := eventbus.New()
	var loop *poller.Loop
	popts = append(popts,
		poller.WithLogger(log.With(logx.String("comp", "poller"))),
		poller.WithCycleHook(func(r poller.CycleResult) {
			bus.Publish(eventbus.Event{Type: eventbus.TypeCycleCompleted, Data: eventbus.CycleEvent{
				ID:       r.ID,
				Outcome:  r.Outcome.String(),
				ErrKind:  poller.Classify(r.Err),
				FromDate: loop.FromDate(),
			}})
		}),
	)
	loop = poller.New(client, notif, popts...)

	appLog.Info("bot configured",
		logx.String("config", cfgm.Path()),
		logx.String("endpoint", apiCfg.Endpoint),
		logx.String("poll_interval", cfg.Poll.Interval),
		logx.String("credentials", creds.String()),
	)

	return &App{
		cfgm:  cfgm,
		log:   appLog,
		logs:  logSvc,
		bus:   bus,
		notif: notif,
		loop:  loop,
		sd:    &systemd.Notifier{Log: log.With(logx.String("comp", "systemd"))},
	}, nil
}

// Notifier exposes the notification service (history, direct sends).
func (a *App) Notifier() *notifier.Service { return a.notif }

// Loop exposes the polling loop state.
func (a *App) Loop() *poller.Loop { return a.loop }

// Run starts the poller and the config watcher and blocks until ctx is
// cancelled or a component fails. A signal-driven stop returns nil.
func (a *App) Run(ctx context.Context) error {
	a.sup = supervisor.NewSupervisor(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	sub := a.cfgm.Subscribe(8)
	a.sup.Go("config.reload", func(c context.Context) error {
		defer a.cfgm.Unsubscribe(sub)
		a.reloadLoop(c, sub)
		return nil
	})
	a.sup.GoRestart("config.watch", a.cfgm.Watch, supervisor.WithRestartBackoff(time.Second, time.Minute))
	events, unsub := a.bus.Subscribe(16)
	a.sup.Go("eventbus.observe", func(c context.Context) error {
		defer unsub()
		a.observe(c, events)
		return nil
	})
	a.sup.Go("poller", a.loop.Run)
	if iv := systemd.WatchdogInterval(); iv > 0 {
		a.log.Debug("systemd watchdog enabled", logx.Duration("interval", iv))
		a.sup.Go("systemd.watchdog", func(c context.Context) error { return a.sd.RunWatchdog(c, iv) })
	}

	a.sd.Ready()
	a.sd.Status("polling")
	a.log.Info("bot started")

	<-a.sup.Context().Done()
	a.sd.Stopping()
	a.log.Info("bot stopping")

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.sup.Stop(stopCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		a.log.Warn("shutdown timed out waiting for goroutines")
	}
	_ = a.logs.Close()
	return err
}

// observe mirrors cycle progress into the systemd status line.
func (a *App) observe(ctx context.Context, events <-chan eventbus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time))
			ce, ok := e.Data.(eventbus.CycleEvent)
			if e.Type != eventbus.TypeCycleCompleted || !ok {
				continue
			}
			status := fmt.Sprintf("last cycle %s at %s", ce.Outcome, e.Time.Format(time.RFC3339))
			if ce.Outcome == "failed" {
				status += " (" + ce.ErrKind + ")"
			}
			a.sd.Status(status)
		}
	}
}
