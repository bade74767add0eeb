package scheduler

import (
	"container/heap"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/adhocore/gronx"
	"github.com/google/uuid"
)

// Scheduler is the mutable registry of scheduled tasks.
type Scheduler struct {
	h   taskHeap
	seq uint64
	now func() time.Time
}

// New creates an empty Scheduler. now supplies the wall clock; nil means time.Now.
func New(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	s := &Scheduler{now: now}
	heap.Init(&s.h)
	return s
}

// Add registers a task and returns its ID.
func (s *Scheduler) Add(t Task) string {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.seq++
	t.seq = s.seq
	heapPush(&s.h, &t)
	return t.ID
}

// Remove cancels a task before it fires. Reports whether it was registered.
func (s *Scheduler) Remove(id string) bool {
	return heapRemoveFunc(&s.h, func(t *Task) bool { return t.ID == id }) > 0
}

// PurgeGroup removes every task tagged with group and returns the count.
func (s *Scheduler) PurgeGroup(group string) int {
	return heapRemoveFunc(&s.h, func(t *Task) bool { return t.Group == group })
}

// PurgeOnce removes every non-recurring task and returns the count.
func (s *Scheduler) PurgeOnce() int {
	return heapRemoveFunc(&s.h, func(t *Task) bool { return t.Recurrence == Once })
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	return s.h.Len()
}

// Next returns the fire time of the earliest task.
func (s *Scheduler) Next() (time.Time, bool) {
	if s.h.Len() == 0 {
		return time.Time{}, false
	}
	return s.h[0].At, true
}

// Pending returns all registered tasks in firing order.
func (s *Scheduler) Pending() []TaskInfo {
	tasks := make([]*Task, len(s.h))
	copy(tasks, s.h)
	sort.Slice(tasks, func(i, j int) bool { return taskHeap(tasks).Less(i, j) })
	out := make([]TaskInfo, len(tasks))
	for i, t := range tasks {
		out[i] = t.info()
	}
	return out
}

// RunPending fires, in order, every task due at the time the call starts.
// Actions run synchronously on the caller's goroutine. Tasks that become due
// while actions are running wait for the next call.
//
// When an action fails, the failing task is re-armed or dropped as usual,
// the remaining due tasks stay registered, and the error is returned.
func (s *Scheduler) RunPending(ctx context.Context) (int, error) {
	now := s.now()
	fired := 0
	for s.h.Len() > 0 && !s.h[0].At.After(now) {
		if err := ctx.Err(); err != nil {
			return fired, err
		}
		t := heapPop(&s.h)
		res, err := t.Action(ctx)
		fired++
		if res != Cancel && t.Recurrence == Daily {
			t.At = nextDaily(t.At, now)
			heapPush(&s.h, t)
		}
		if err != nil {
			return fired, fmt.Errorf("task %q: %w", t.Name, err)
		}
	}
	return fired, nil
}

// nextDaily returns the next time strictly after now that matches the hour
// and minute of at, in at's location.
func nextDaily(at, now time.Time) time.Time {
	expr := fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
	next, err := gronx.NextTickAfter(expr, now.In(at.Location()), false)
	if err == nil {
		return next
	}
	next = at
	for !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
