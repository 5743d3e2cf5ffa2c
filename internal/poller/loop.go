package poller

import (
	"context"
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"homeworkbot/internal/homework"
	"homeworkbot/internal/runtime/supervisor"
	logx "homeworkbot/pkg/logx"
)

// FailurePrefix starts every failure notification.
const FailurePrefix = "Program failure: "

// Poller fetches the raw review API response for homework changed since fromDate.
type Poller interface {
	Poll(ctx context.Context, fromDate int64) (any, error)
}

// Notifier delivers a message to the chat. It must not fail the loop.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// Outcome is what a single cycle concluded.
type Outcome int

const (
	// OutcomeNoHomework: the response carried an empty homework list.
	OutcomeNoHomework Outcome = iota
	// OutcomeUnchanged: the verdict message equals the last one sent.
	OutcomeUnchanged
	// OutcomeChanged: a new verdict message must be sent.
	OutcomeChanged
	// OutcomeFailed: a recoverable error; a failure message must be sent.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoHomework:
		return "no_homework"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeChanged:
		return "changed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CycleResult is the explicit result of one poll-evaluate pass.
type CycleResult struct {
	ID      string
	Outcome Outcome
	// Message is the verdict message (OutcomeChanged, OutcomeUnchanged) or
	// the failure message (OutcomeFailed).
	Message string
	Err     error

	// CurrentDate is the server timestamp from the response, when present.
	CurrentDate    int64
	HasCurrentDate bool
}

type Option func(*Loop)

func WithLogger(log logx.Logger) Option { return func(l *Loop) { l.log = log } }

// WithSchedule sets when the next poll happens after a cycle ends.
func WithSchedule(s cron.Schedule) Option {
	return func(l *Loop) {
		if s != nil {
			l.schedule = s
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// WithSleep replaces the context-aware sleep between cycles. It must return
// ctx.Err() when ctx is cancelled.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Loop) {
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// WithFromDate sets the initial from_date. Default: the clock's current time.
func WithFromDate(ts int64) Option {
	return func(l *Loop) {
		l.fromDate = ts
		l.fromDateSet = true
	}
}

// WithStaticFromDate keeps from_date fixed instead of advancing it to the
// server's current_date after each successful cycle.
func WithStaticFromDate(static bool) Option { return func(l *Loop) { l.staticFromDate = static } }

// WithCycleHook is called after every completed cycle (e.g. systemd watchdog).
func WithCycleHook(fn func(CycleResult)) Option { return func(l *Loop) { l.onCycle = fn } }

// Loop is the polling state machine. It is not safe for concurrent use:
// Run owns it.
type Loop struct {
	poller   Poller
	notifier Notifier
	log      logx.Logger

	schedule cron.Schedule
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	onCycle  func(CycleResult)

	fromDate       int64
	fromDateSet    bool
	staticFromDate bool

	lastMessage string
}

func New(p Poller, n Notifier, opts ...Option) *Loop {
	l := &Loop{
		poller:   p,
		notifier: n,
		log:      logx.Nop(),
		schedule: cron.Every(DefaultInterval),
		now:      time.Now,
		sleep:    sleepCtx,
	}
	for _, o := range opts {
		o(l)
	}
	if l.log.IsZero() {
		l.log = logx.Nop()
	}
	if !l.fromDateSet {
		l.fromDate = l.now().Unix()
	}
	return l
}

// LastMessage is the last verdict message sent ("" before the first one).
func (l *Loop) LastMessage() string { return l.lastMessage }

// FromDate is the from_date the next poll will use.
func (l *Loop) FromDate() int64 { return l.fromDate }

// Cycle polls once and evaluates the response. It does not notify or change
// loop state; a panic anywhere in the pipeline becomes OutcomeFailed.
func (l *Loop) Cycle(ctx context.Context) (res CycleResult) {
	res.ID = uuid.NewString()
	err := supervisor.Safe(func() error {
		return l.evaluate(ctx, &res)
	})
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		res.Message = FailurePrefix + err.Error()
	}
	return res
}

func (l *Loop) evaluate(ctx context.Context, res *CycleResult) error {
	resp, err := l.poller.Poll(ctx, l.fromDate)
	if err != nil {
		return err
	}
	homeworks, err := homework.ValidateResponse(resp)
	if err != nil {
		return err
	}
	res.CurrentDate, res.HasCurrentDate = homework.CurrentDate(resp)

	if len(homeworks) == 0 {
		res.Outcome = OutcomeNoHomework
		return nil
	}

	msg, err := homework.ParseStatus(homeworks[0])
	if err != nil {
		return err
	}
	res.Message = msg
	if msg == l.lastMessage {
		res.Outcome = OutcomeUnchanged
	} else {
		res.Outcome = OutcomeChanged
	}
	return nil
}

// Step runs one cycle and acts on its result.
func (l *Loop) Step(ctx context.Context) CycleResult {
	res := l.Cycle(ctx)
	log := l.log.With(logx.String("cycle", res.ID))

	// A poll aborted by shutdown is not a program failure.
	if res.Outcome == OutcomeFailed && ctx.Err() != nil {
		log.Debug("cycle aborted by shutdown", logx.Err(res.Err))
		return res
	}

	switch res.Outcome {
	case OutcomeNoHomework:
		log.Debug("no homework data yet", logx.Int64("from_date", l.fromDate))
	case OutcomeUnchanged:
		log.Info("status unchanged", logx.String("message", res.Message))
	case OutcomeChanged:
		l.notify(ctx, log, res.Message)
		l.lastMessage = res.Message
		log.Info("status changed", logx.String("message", res.Message))
	case OutcomeFailed:
		fields := []logx.Field{logx.String("kind", Classify(res.Err)), logx.Err(res.Err)}
		var pe *supervisor.PanicError
		if errors.As(res.Err, &pe) {
			fields = append(fields, logx.Stack(pe.Stack))
		}
		log.Error("cycle failed", fields...)
		l.notify(ctx, log, res.Message)
	}

	if res.Outcome != OutcomeFailed && res.HasCurrentDate && !l.staticFromDate && res.CurrentDate > l.fromDate {
		log.Debug("from_date advanced", logx.Int64("from", l.fromDate), logx.Int64("to", res.CurrentDate))
		l.fromDate = res.CurrentDate
	}

	if l.onCycle != nil {
		l.onCycle(res)
	}
	return res
}

// notify delivers msg. A panic in the delivery path is logged and treated
// like any other swallowed delivery failure.
func (l *Loop) notify(ctx context.Context, log logx.Logger, msg string) {
	err := supervisor.Safe(func() error {
		l.notifier.Notify(ctx, msg)
		return nil
	})
	var pe *supervisor.PanicError
	if errors.As(err, &pe) {
		log.Error("notification panicked", logx.Any("panic", pe.Value), logx.Stack(pe.Stack))
	}
}

// Run cycles until ctx is cancelled. It always returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("polling started", logx.Int64("from_date", l.fromDate), logx.Bool("static_from_date", l.staticFromDate))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Step(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}

		now := l.now()
		next := l.schedule.Next(now)
		wait := max(next.Sub(now), 0)
		l.log.Debug("sleeping until next poll", logx.Time("next", next), logx.String("in", humanize.RelTime(next, now, "ago", "from now")))
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
