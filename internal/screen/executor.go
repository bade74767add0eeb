package screen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warpdl/autoattend/internal/config"
	"github.com/warpdl/autoattend/pkg/logger"
)

// Executor composes the capabilities into retryable meeting actions.
type Executor struct {
	drv     Driver
	app     string
	markers config.Markers
	retry   config.Retry
	sleep   Sleeper
	report  Reporter
	log     logger.Logger
}

// Options configures an Executor.
type Options struct {
	HostApp string
	Markers config.Markers
	Retry   config.Retry
	// Sleep defaults to SleepContext.
	Sleep Sleeper
	// Log receives debug output such as recovered panics. Optional.
	Log logger.Logger
}

// NewExecutor creates an Executor over drv.
func NewExecutor(drv Driver, report Reporter, opts Options) *Executor {
	if opts.Sleep == nil {
		opts.Sleep = SleepContext
	}
	if opts.Log == nil {
		opts.Log = logger.NewNopLogger()
	}
	return &Executor{
		drv:     drv,
		app:     opts.HostApp,
		markers: opts.Markers,
		retry:   opts.Retry,
		sleep:   opts.Sleep,
		report:  report,
		log:     opts.Log,
	}
}

// OpenMeeting opens link and waits for the host window to come to the
// foreground. A window that never appears is reported and ignored. The only
// error returned is a context error.
func (e *Executor) OpenMeeting(ctx context.Context, link string) error {
	if err := e.guard("open url", func() error { return e.drv.OpenURL(ctx, link) }); err != nil {
		e.report.Warning("Failed to open meeting link: %v", err)
	}
	for i := 0; i < e.retry.ForegroundAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.bringToFront(ctx) == nil {
			return nil
		}
		if i < e.retry.ForegroundAttempts-1 {
			if err := e.sleep(ctx, e.retry.ForegroundInterval); err != nil {
				return err
			}
		}
	}
	e.report.Warning("%s window not found after %d attempts, continuing", e.app, e.retry.ForegroundAttempts)
	return nil
}

// AttemptJoin looks for the join marker and clicks it. It reports false when
// the attempt budget is exhausted without a hit.
func (e *Executor) AttemptJoin(ctx context.Context) (bool, error) {
	return e.findAndClick(ctx, "join", e.markers.JoinImage, e.markers.JoinConfidence,
		e.retry.JoinAttempts, e.retry.JoinInterval)
}

// AttemptLeave raises the host window, then looks for the leave marker and
// clicks it. It returns ErrMarkerNotFound when the budget is exhausted.
func (e *Executor) AttemptLeave(ctx context.Context) error {
	if err := e.bringToFront(ctx); err != nil {
		e.report.Warning("%s window not found before leaving: %v", e.app, err)
	}
	ok, err := e.findAndClick(ctx, "leave", e.markers.LeaveImage, e.markers.LeaveConfidence,
		e.retry.LeaveAttempts, e.retry.LeaveInterval)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: leave marker after %d attempts", ErrMarkerNotFound, e.retry.LeaveAttempts)
	}
	return nil
}

// DetectManualJoin raises the host window and checks once for the leave
// marker, whose presence means someone is already inside the meeting.
func (e *Executor) DetectManualJoin(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := e.bringToFront(ctx); err != nil {
		e.report.Warning("%s window not found during manual join check: %v", e.app, err)
	}
	_, ok := e.guardLocate("locate leave marker", func() (Region, bool, error) {
		return e.drv.Locate(ctx, e.markers.LeaveImage, e.markers.LeaveConfidence)
	})
	return ok, nil
}

func (e *Executor) bringToFront(ctx context.Context) error {
	err := e.guard("bring to front", func() error { return e.drv.BringToFront(ctx, e.app) })
	if err != nil && !errors.Is(err, ErrWindowNotFound) {
		e.log.Warning("bring to front %q: %v", e.app, err)
	}
	return err
}

// findAndClick polls for image up to attempts times, clicking the first hit.
func (e *Executor) findAndClick(ctx context.Context, name, image string, confidence float64, attempts int, interval time.Duration) (bool, error) {
	op := "locate " + name + " marker"
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		r, ok := e.guardLocate(op, func() (Region, bool, error) {
			return e.drv.Locate(ctx, image, confidence)
		})
		if ok {
			err := e.guard("click "+name, func() error { return e.drv.Click(ctx, r) })
			if err == nil {
				return true, nil
			}
			e.report.Warning("Failed to click %s button: %v", name, err)
		}
		if i < attempts-1 {
			if err := e.sleep(ctx, interval); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}
