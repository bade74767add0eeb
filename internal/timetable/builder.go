// Package timetable derives a day's meetings from the static calendar and
// registers the reminder, join and leave tasks for them.
package timetable

import (
	"context"
	"strings"
	"time"

	"github.com/warpdl/autoattend/internal/config"
	"github.com/warpdl/autoattend/internal/scheduler"
)

// Reason explains why a day has or has no classes.
type Reason string

const (
	ReasonClassDay     Reason = "class day"
	ReasonSemesterOver Reason = "semester over"
	ReasonHoliday      Reason = "holiday"
	ReasonNoClasses    Reason = "no classes"
)

// DaySchedule is the derived plan for one calendar day.
type DaySchedule struct {
	Date       time.Time     `json:"date"`
	Slots      []config.Slot `json:"slots"`
	IsClassDay bool          `json:"is_class_day"`
	Reason     Reason        `json:"reason"`
}

// Registry is the part of the scheduler the builder writes to.
type Registry interface {
	Add(t scheduler.Task) string
	PurgeGroup(group string) int
}

// Transitions supplies the actions fired at join and leave times.
type Transitions interface {
	JoinAction(slot config.Slot) scheduler.Action
	LeaveAction(link string) scheduler.Action
}

// Notifier receives the day notices.
type Notifier interface {
	Info(format string, args ...interface{})
}

// Builder turns the calendar into scheduled tasks.
type Builder struct {
	cfg   *config.Config
	reg   Registry
	trans Transitions
	note  Notifier
	last  string
}

// NewBuilder creates a Builder.
func NewBuilder(cfg *config.Config, reg Registry, trans Transitions, note Notifier) *Builder {
	return &Builder{cfg: cfg, reg: reg, trans: trans, note: note}
}

// Plan computes the schedule for the day containing now without registering
// anything.
func Plan(cfg *config.Config, now time.Time) DaySchedule {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	ds := DaySchedule{Date: day}

	if !cfg.SemesterEnd.IsZero() && day.Format(config.DateLayout) > cfg.SemesterEnd.Format(config.DateLayout) {
		ds.Reason = ReasonSemesterOver
		return ds
	}
	if cfg.IsHoliday(day) {
		ds.Reason = ReasonHoliday
		return ds
	}
	slots := cfg.Calendar[day.Weekday()]
	if len(slots) == 0 {
		ds.Reason = ReasonNoClasses
		return ds
	}
	ds.Slots = append([]config.Slot(nil), slots...)
	ds.IsClassDay = true
	ds.Reason = ReasonClassDay
	return ds
}

// Build plans the day containing now, announces it and registers its tasks.
// Tasks from the previously built day are purged first. Times that already
// passed are handled as follows: past reminders are dropped, a meeting still
// in progress gets its join task due immediately, and a finished meeting
// registers nothing.
func (b *Builder) Build(now time.Time) DaySchedule {
	ds := Plan(b.cfg, now)
	group := ds.Date.Format(config.DateLayout)
	if b.last != "" {
		b.reg.PurgeGroup(b.last)
	}
	b.reg.PurgeGroup(group)
	b.last = group

	switch ds.Reason {
	case ReasonSemesterOver:
		b.note.Info("🎓 Semester over~! No more classes")
		return ds
	case ReasonHoliday:
		b.note.Info("Holiday today (%s)~ enjoy your rest", group)
		return ds
	case ReasonNoClasses:
		b.note.Info("💤 No classes today~")
		return ds
	}

	b.note.Info("%s", DayNotice(ds.Slots))
	for _, slot := range ds.Slots {
		b.register(group, slot, now)
	}
	return ds
}

// DayNotice formats the consolidated list of a day's meetings.
func DayNotice(slots []config.Slot) string {
	var sb strings.Builder
	sb.WriteString("Hey~ here’s today’s schedule 💕\n")
	for _, s := range slots {
		sb.WriteString("\n👉 ")
		sb.WriteString(s.Join.String())
		sb.WriteString(" → ")
		sb.WriteString(s.Leave.String())
	}
	return sb.String()
}

func (b *Builder) register(group string, slot config.Slot, now time.Time) {
	joinAt := slot.Join.On(now)
	leaveAt := slot.Leave.On(now)
	if leaveAt.Before(now) {
		return
	}

	remindAt := joinAt.Add(-b.cfg.Timing.ReminderLead)
	if !remindAt.Before(now) {
		join := slot.Join
		b.reg.Add(scheduler.Task{
			Name:       "reminder " + join.String(),
			Group:      group,
			At:         remindAt,
			Recurrence: scheduler.Once,
			Action: func(context.Context) (scheduler.Result, error) {
				b.note.Info("Class at %s soon, get ready", join)
				return scheduler.Continue, nil
			},
		})
	}

	if joinAt.Before(now) {
		joinAt = now
	}
	b.reg.Add(scheduler.Task{
		Name:       "join " + slot.Link,
		Group:      group,
		At:         joinAt,
		Recurrence: scheduler.Daily,
		Action:     b.trans.JoinAction(slot),
	})
	b.reg.Add(scheduler.Task{
		Name:       "leave " + slot.Link,
		Group:      group,
		At:         leaveAt,
		Recurrence: scheduler.Daily,
		Action:     b.trans.LeaveAction(slot.Link),
	})
}
