package scheduler

import (
	"context"
	"time"
)

// Recurrence controls what happens to a task after it fires.
type Recurrence int

const (
	// Once tasks are removed after their first firing.
	Once Recurrence = iota
	// Daily tasks re-arm to the same time of day on the following day.
	Daily
)

func (r Recurrence) String() string {
	if r == Daily {
		return "daily"
	}
	return "once"
}

// Result is returned by an Action to tell the scheduler whether the task
// should stay registered.
type Result int

const (
	// Continue keeps the task according to its Recurrence.
	Continue Result = iota
	// Cancel removes the task immediately, even when it is Daily.
	Cancel
)

// Action is the callback run when a task fires. A non-nil error is treated
// as an unhandled failure and returned from RunPending.
type Action func(ctx context.Context) (Result, error)

// Task is a registered (fire time, recurrence, action) entry.
type Task struct {
	// ID uniquely identifies the task. Assigned by Add when empty.
	ID string
	// Name is a human readable label ("join 08:00", "reminder 07:50").
	Name string
	// Group tags tasks registered together so they can be purged as a unit.
	Group string
	// At is the wall-clock time of the next firing.
	At time.Time
	// Recurrence decides whether the task re-arms after firing.
	Recurrence Recurrence
	// Action runs when the task fires.
	Action Action

	seq uint64
}

// TaskInfo is a read-only view of a registered task.
type TaskInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Group      string    `json:"group,omitempty"`
	At         time.Time `json:"at"`
	Recurrence string    `json:"recurrence"`
}

func (t *Task) info() TaskInfo {
	return TaskInfo{
		ID:         t.ID,
		Name:       t.Name,
		Group:      t.Group,
		At:         t.At,
		Recurrence: t.Recurrence.String(),
	}
}
