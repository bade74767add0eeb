// Package supervisor runs the outer control loop of the daemon: it builds the
// day's schedule, polls the task scheduler, emits hourly health notices,
// rebuilds the schedule at midnight and, when something escapes the loop,
// applies the bounded crash recovery policy.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/warpdl/autoattend/internal/config"
	"github.com/warpdl/autoattend/internal/timetable"
	"github.com/warpdl/autoattend/pkg/logger"
)

// ErrLoopFailure wraps any failure that escapes the control loop.
var ErrLoopFailure = errors.New("supervisor: unhandled loop failure")

// Planner builds and registers the schedule for the day containing now.
type Planner interface {
	Build(now time.Time) timetable.DaySchedule
}

// TaskRunner fires due tasks and drops one-shot leftovers.
type TaskRunner interface {
	RunPending(ctx context.Context) (int, error)
	PurgeOnce() int
}

// Notifier receives the loop's user-visible notices.
type Notifier interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Critical(format string, args ...interface{})
}

// SleepObserver is told about a long sleep until the next morning.
type SleepObserver interface {
	Start(from, until time.Time)
	Update(now time.Time)
	Done()
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// LoopOptions configures a Loop.
type LoopOptions struct {
	Timing config.Timing
	// Now defaults to time.Now.
	Now func() time.Time
	// Sleep defaults to a timer honoring ctx.
	Sleep Sleeper
	// OnTick runs after every poll, with the current day. Optional.
	OnTick func(ds timetable.DaySchedule)
	// OnNewDay runs before the midnight rebuild. Optional.
	OnNewDay func()
	// Observer follows the sleep until morning. Optional.
	Observer SleepObserver
	// Log receives local-only diagnostics. Optional.
	Log logger.Logger
}

// Loop is one run of the control loop.
type Loop struct {
	plan    Planner
	tasks   TaskRunner
	note    Notifier
	counter *Counter
	timing  config.Timing
	now     func() time.Time
	sleep   Sleeper
	onTick  func(timetable.DaySchedule)
	onDay   func()
	obs     SleepObserver
	log     logger.Logger
}

// NewLoop creates a Loop.
func NewLoop(plan Planner, tasks TaskRunner, note Notifier, counter *Counter, opts LoopOptions) *Loop {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Log == nil {
		opts.Log = logger.NewNopLogger()
	}
	return &Loop{
		plan:    plan,
		tasks:   tasks,
		note:    note,
		counter: counter,
		timing:  opts.Timing,
		now:     opts.Now,
		sleep:   opts.Sleep,
		onTick:  opts.OnTick,
		onDay:   opts.OnNewDay,
		obs:     opts.Observer,
		log:     opts.Log,
	}
}

// Run builds today's schedule. On a day without classes it sleeps until the
// next morning and returns nil so the caller can start over. Otherwise it
// polls until ctx is done or a failure escapes, which is returned wrapped in
// ErrLoopFailure.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("PANIC in control loop: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("%w: panic: %v", ErrLoopFailure, r)
		}
	}()

	ds := l.plan.Build(l.now())
	if l.onTick != nil {
		l.onTick(ds)
	}
	if !ds.IsClassDay {
		return l.sleepUntilMorning(ctx)
	}
	return l.poll(ctx, ds)
}

func (l *Loop) poll(ctx context.Context, ds timetable.DaySchedule) error {
	lastHealth := l.now()
	// a start during hour 0 was just built by Run
	midnightDone := lastHealth.Hour() == 0
	for {
		if _, err := l.tasks.RunPending(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", ErrLoopFailure, err)
		}

		now := l.now()
		if now.Sub(lastHealth) > l.timing.HealthInterval {
			l.note.Info("Hourly health check - System running normally")
			lastHealth = now
			l.counter.Reset()
		}

		if now.Hour() == 0 && !midnightDone {
			l.note.Info("Midnight refresh - Updating schedule")
			l.tasks.PurgeOnce()
			if l.onDay != nil {
				l.onDay()
			}
			ds = l.plan.Build(now)
			midnightDone = true
		} else if now.Hour() != 0 {
			midnightDone = false
		}

		if l.onTick != nil {
			l.onTick(ds)
		}
		if err := l.sleep(ctx, l.timing.PollInterval); err != nil {
			return err
		}
	}
}

// NextMorning returns the morning time on the calendar day after now.
func NextMorning(now time.Time, morning config.TimeOfDay) time.Time {
	return morning.On(now.AddDate(0, 0, 1))
}

func (l *Loop) sleepUntilMorning(ctx context.Context) error {
	now := l.now()
	until := NextMorning(now, l.timing.Morning)
	l.note.Info("🌙 All done for today~ Sleeping until morning 💫")
	if l.obs != nil {
		l.obs.Start(now, until)
		defer l.obs.Done()
	}
	for {
		now = l.now()
		if !now.Before(until) {
			return nil
		}
		if l.obs != nil {
			l.obs.Update(now)
		}
		step := l.timing.SleepStep
		if rest := until.Sub(now); rest < step {
			step = rest
		}
		if err := l.sleep(ctx, step); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
