package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warpdl/autoattend/pkg/logger"
)

var (
	// ErrTooManyRestarts is returned once the restart ceiling is exceeded.
	// The process must exit non-zero and not relaunch itself.
	ErrTooManyRestarts = errors.New("supervisor: too many restart attempts")
	// ErrRelaunch is returned when relaunching the process failed.
	ErrRelaunch = errors.New("supervisor: relaunch failed")
)

// Relauncher starts a fresh copy of the current process, handing it the
// current restart count. Implementations that replace the process image do
// not return on success.
type Relauncher interface {
	Relaunch(restarts int) error
}

// RelaunchFunc adapts a function to Relauncher.
type RelaunchFunc func(restarts int) error

// Relaunch calls f.
func (f RelaunchFunc) Relaunch(restarts int) error {
	return f(restarts)
}

// Recovery applies the bounded restart policy to unhandled failures.
type Recovery struct {
	counter  *Counter
	note     Notifier
	relaunch Relauncher
	delay    time.Duration
	sleep    Sleeper
	log      logger.Logger
}

// NewRecovery creates a Recovery. sleep may be nil.
func NewRecovery(counter *Counter, note Notifier, relaunch Relauncher, delay time.Duration, sleep Sleeper, l logger.Logger) *Recovery {
	if sleep == nil {
		sleep = sleepContext
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Recovery{
		counter:  counter,
		note:     note,
		relaunch: relaunch,
		delay:    delay,
		sleep:    sleep,
		log:      l,
	}
}

// Handle records failure and either relaunches the process or gives up.
// It returns nil when a relaunch was started and the current process should
// exit cleanly, ErrTooManyRestarts when the ceiling is exceeded, and
// ErrRelaunch when the relaunch itself failed. Both errors are fatal.
func (r *Recovery) Handle(failure error) error {
	n := r.counter.Inc()
	if r.counter.Exceeded() {
		r.note.Critical("Too many restart attempts - Requiring manual intervention")
		return fmt.Errorf("%w: %d crashes, last: %v", ErrTooManyRestarts, n, failure)
	}

	r.note.Error("Crash detected (attempt %d/%d): %v", n, r.counter.Max(), failure)
	// the failed loop's context is gone; damping must not be cut short
	_ = r.sleep(context.Background(), r.delay)

	if err := r.relaunch.Relaunch(n); err != nil {
		r.note.Critical("Failed to restart: %v", err)
		return fmt.Errorf("%w: %v", ErrRelaunch, err)
	}
	r.log.Info("relaunched after crash %d", n)
	return nil
}
