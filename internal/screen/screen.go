// Package screen drives the host meeting application through four external
// capabilities: opening a URL, raising a window, locating a reference image on
// the display and clicking a region. The capabilities are interfaces so the
// executor can be exercised without a display.
package screen

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrWindowNotFound is returned by a WindowManager when no window matches.
	ErrWindowNotFound = errors.New("screen: window not found")
	// ErrMarkerNotFound is returned when a marker never appeared within the attempt budget.
	ErrMarkerNotFound = errors.New("screen: marker not found")
)

// Region is a rectangle on the display, in pixels.
type Region struct {
	X, Y, W, H int
}

// Center returns the middle point of r.
func (r Region) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// URLOpener opens a link in the default external handler.
type URLOpener interface {
	OpenURL(ctx context.Context, url string) error
}

// WindowManager raises a named application window.
type WindowManager interface {
	BringToFront(ctx context.Context, app string) error
}

// Locator finds a reference image on the current display. A miss is reported
// as ok == false with a nil error.
type Locator interface {
	Locate(ctx context.Context, image string, confidence float64) (r Region, ok bool, err error)
}

// Clicker clicks a region.
type Clicker interface {
	Click(ctx context.Context, r Region) error
}

// Driver bundles every capability the executor needs.
type Driver interface {
	URLOpener
	WindowManager
	Locator
	Clicker
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
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

// Reporter receives user-visible notices about screen actions.
type Reporter interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}
