// Package lifecycle implements the per-meeting join and leave state machine,
// including the deferred manual-join check used when automated joining fails.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warpdl/autoattend/internal/config"
	"github.com/warpdl/autoattend/internal/journal"
	"github.com/warpdl/autoattend/internal/scheduler"
	"github.com/warpdl/autoattend/pkg/logger"
)

// ErrLeaveMarkerNotFound is returned by Leave when the leave button never
// appeared. The link is cleared from joined state regardless.
var ErrLeaveMarkerNotFound = errors.New("lifecycle: leave button not found")

// Actions are the screen-level operations the machine drives.
type Actions interface {
	OpenMeeting(ctx context.Context, link string) error
	AttemptJoin(ctx context.Context) (bool, error)
	AttemptLeave(ctx context.Context) error
	DetectManualJoin(ctx context.Context) (bool, error)
}

// Scheduler registers deferred tasks.
type Scheduler interface {
	Add(t scheduler.Task) string
	Remove(id string) bool
}

// Notifier receives a notice for every transition and failure.
type Notifier interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Recorder persists transitions.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Options configures a Machine.
type Options struct {
	ManualCheckDelay time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// Recorder is optional.
	Recorder Recorder
	// Log receives local-only diagnostics such as journal failures.
	Log logger.Logger
}

// Machine drives meetings through their lifecycle. All methods must be
// called from the control loop.
type Machine struct {
	tracker *Tracker
	act     Actions
	sched   Scheduler
	note    Notifier
	rec     Recorder
	log     logger.Logger
	now     func() time.Time
	delay   time.Duration
}

// New creates a Machine writing state to tracker.
func New(tracker *Tracker, act Actions, sched Scheduler, note Notifier, opts Options) *Machine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logger.NewNopLogger()
	}
	if opts.ManualCheckDelay <= 0 {
		opts.ManualCheckDelay = config.DefaultManualCheckDelay
	}
	return &Machine{
		tracker: tracker,
		act:     act,
		sched:   sched,
		note:    note,
		rec:     opts.Recorder,
		log:     opts.Log,
		now:     opts.Now,
		delay:   opts.ManualCheckDelay,
	}
}

// Tracker returns the state the machine writes to.
func (m *Machine) Tracker() *Tracker {
	return m.tracker
}

// Join opens the meeting and tries to click the join button. When every
// attempt misses, a one-shot manual check is scheduled at the slot's join
// time plus the manual check delay and the link becomes ManualCheckPending.
// A miss is not an error; only context errors are returned.
func (m *Machine) Join(ctx context.Context, slot config.Slot) error {
	if m.tracker.Joined(slot.Link) {
		m.log.Info("Meeting already in joined list, skipping join check")
		return nil
	}
	m.cancelManualCheck(slot.Link)
	m.transition(ctx, slot.Link, JoinAttempted, "")
	m.note.Info("Attempting to join meeting at %s", slot.Join)

	if err := m.act.OpenMeeting(ctx, slot.Link); err != nil {
		return err
	}
	ok, err := m.act.AttemptJoin(ctx)
	if err != nil {
		return err
	}
	if ok {
		m.transition(ctx, slot.Link, Joined, "automated")
		m.note.Info("Successfully joined meeting (%s → %s)", slot.Join, slot.Leave)
		return nil
	}

	now := m.now()
	at := slot.Join.On(now).Add(m.delay)
	s := m.tracker.get(slot.Link)
	s.checkID = m.sched.Add(scheduler.Task{
		Name:       "manual-check " + slot.Link,
		Group:      now.Format(config.DateLayout),
		At:         at,
		Recurrence: scheduler.Once,
		Action:     m.ManualCheckAction(slot.Link),
	})
	s.ManualCheckAt = at
	m.transition(ctx, slot.Link, ManualCheckPending, "join button not found")
	m.note.Warning("Join failed - Will check for manual join at %s", at.Format("15:04"))
	return nil
}

// Leave clicks the leave button of a joined meeting. Leaving a link that is
// not joined performs no screen action and clears its tracking. When the
// button never appears the link is still cleared and ErrLeaveMarkerNotFound
// is returned.
func (m *Machine) Leave(ctx context.Context, link string) error {
	if !m.tracker.Joined(link) {
		m.cancelManualCheck(link)
		m.transition(ctx, link, Left, "not joined")
		m.note.Info("Meeting not in active sessions, skipping leave")
		return nil
	}

	err := m.act.AttemptLeave(ctx)
	if err != nil && ctx.Err() != nil {
		return err
	}
	if err != nil {
		m.transition(ctx, link, Left, "leave button not found")
		return fmt.Errorf("%w: %v", ErrLeaveMarkerNotFound, err)
	}
	m.transition(ctx, link, Left, "")
	m.note.Info("Successfully left meeting")
	return nil
}

// CheckManualJoin checks whether someone joined link by hand. It never
// schedules anything further.
func (m *Machine) CheckManualJoin(ctx context.Context, link string) error {
	s := m.tracker.get(link)
	s.checkID = ""
	s.ManualCheckAt = time.Time{}
	if s.Status == Joined {
		m.note.Info("Meeting already joined, canceling manual check")
		return nil
	}
	ok, err := m.act.DetectManualJoin(ctx)
	if err != nil {
		return err
	}
	if ok {
		m.transition(ctx, link, Joined, "manual")
		m.note.Info("Manual join detected at %s", m.now().Format("15:04"))
		return nil
	}
	m.note.Warning("No manual join detected")
	return nil
}

// JoinAction adapts Join to a scheduler action.
func (m *Machine) JoinAction(slot config.Slot) scheduler.Action {
	return func(ctx context.Context) (scheduler.Result, error) {
		return scheduler.Continue, m.Join(ctx, slot)
	}
}

// LeaveAction adapts Leave to a scheduler action. A missing leave button is
// reported and absorbed.
func (m *Machine) LeaveAction(link string) scheduler.Action {
	return func(ctx context.Context) (scheduler.Result, error) {
		err := m.Leave(ctx, link)
		if errors.Is(err, ErrLeaveMarkerNotFound) {
			m.note.Error("Error leaving meeting: %v", err)
			return scheduler.Continue, nil
		}
		return scheduler.Continue, err
	}
}

// ManualCheckAction adapts CheckManualJoin to a scheduler action that always
// removes itself.
func (m *Machine) ManualCheckAction(link string) scheduler.Action {
	return func(ctx context.Context) (scheduler.Result, error) {
		return scheduler.Cancel, m.CheckManualJoin(ctx, link)
	}
}

func (m *Machine) cancelManualCheck(link string) {
	s, ok := m.tracker.states[link]
	if !ok || s.checkID == "" {
		return
	}
	m.sched.Remove(s.checkID)
	s.checkID = ""
	s.ManualCheckAt = time.Time{}
}

func (m *Machine) transition(ctx context.Context, link string, to Status, note string) {
	m.tracker.get(link).Status = to
	if m.rec == nil {
		return
	}
	now := m.now()
	err := m.rec.Record(ctx, journal.Entry{
		Day:    now.Format(config.DateLayout),
		Link:   link,
		Status: to.String(),
		At:     now,
		Note:   note,
	})
	if err != nil {
		m.log.Warning("journal: %v", err)
	}
}
