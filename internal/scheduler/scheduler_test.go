package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func recordAction(log *[]string, name string, res Result) Action {
	return func(context.Context) (Result, error) {
		*log = append(*log, name)
		return res, nil
	}
}

func TestScheduler_FiresDueTasksInOrder(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 20, 7, 0, 0, 0, time.UTC)}
	s := New(clock.Now)
	var fired []string

	s.Add(Task{Name: "join", At: clock.now.Add(time.Hour), Action: recordAction(&fired, "join", Continue)})
	s.Add(Task{Name: "reminder", At: clock.now.Add(50 * time.Minute), Action: recordAction(&fired, "reminder", Continue)})
	s.Add(Task{Name: "leave", At: clock.now.Add(3 * time.Hour), Action: recordAction(&fired, "leave", Continue)})

	if n, err := s.RunPending(context.Background()); err != nil || n != 0 {
		t.Fatalf("expected nothing due, got n=%d err=%v", n, err)
	}

	clock.now = clock.now.Add(61 * time.Minute)
	n, err := s.RunPending(context.Background())
	if err != nil {
		t.Fatalf("RunPending: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 fired, got %d", n)
	}
	if len(fired) != 2 || fired[0] != "reminder" || fired[1] != "join" {
		t.Fatalf("unexpected firing order: %v", fired)
	}
}

func TestScheduler_OnceRemovedAfterFiring(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)}
	s := New(clock.Now)
	var fired []string
	s.Add(Task{Name: "once", At: clock.now, Recurrence: Once, Action: recordAction(&fired, "once", Continue)})

	if _, err := s.RunPending(context.Background()); err != nil {
		t.Fatalf("RunPending: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected once task removed, %d remain", s.Len())
	}
	if _, err := s.RunPending(context.Background()); err != nil {
		t.Fatalf("RunPending: %v", err)
	}
	if len(fired) != 1 {
		t.Fatalf("expected single firing, got %v", fired)
	}
}

func TestScheduler_DailyRearmsNextDay(t *testing.T) {
	start := time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	s := New(clock.Now)
	var fired []string
	s.Add(Task{Name: "join", At: start, Recurrence: Daily, Action: recordAction(&fired, "join", Continue)})

	clock.now = start.Add(30 * time.Second)
	if _, err := s.RunPending(context.Background()); err != nil {
		t.Fatalf("RunPending: %v", err)
	}
	next, ok := s.Next()
	if !ok {
		t.Fatal("expected daily task to remain registered")
	}
	want := time.Date(2025, 10, 21, 8, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected next firing %v, got %v", want, next)
	}

	// Same day: no second firing.
	clock.now = start.Add(12 * time.Hour)
	if _, err := s.RunPending(context.Background()); err != nil {
		t.Fatalf("RunPending: %v", err)
	}
	if len(fired) != 1 {
		t.Fatalf("expected one firing on day one, got %d", len(fired))
	}

	clock.now = want
	if _, err := s.RunPending(context.Background()); err != nil {
		t.Fatalf("RunPending: %v", err)
	}
	if len(fired) != 2 {
		t.Fatalf("expected re-armed task to fire on day two, got %d", len(fired))
	}
}

func TestScheduler_CancelResultRemovesDailyTask(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 20, 8, 20, 0, 0, time.UTC)}
	s := New(clock.Now)
	var fired []string
	s.Add(Task{Name: "manual-check", At: clock.now, Recurrence: Daily, Action: recordAction(&fired, "check", Cancel)})

	if _, err := s.RunPending(context.Background()); err != nil {
		t.Fatalf("RunPending: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected cancelled task removed, %d remain", s.Len())
	}
	clock.now = clock.now.Add(24 * time.Hour)
	if n, _ := s.RunPending(context.Background()); n != 0 {
		t.Fatalf("cancelled task fired again")
	}
}

func TestScheduler_ErrorStopsTickAndKeepsRemaining(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)}
	s := New(clock.Now)
	boom := errors.New("boom")
	var fired []string

	s.Add(Task{Name: "bad", At: clock.now.Add(-2 * time.Minute), Action: func(context.Context) (Result, error) {
		return Continue, boom
	}})
	s.Add(Task{Name: "good", At: clock.now.Add(-time.Minute), Action: recordAction(&fired, "good", Continue)})

	_, err := s.RunPending(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(fired) != 0 {
		t.Fatalf("expected tick to stop after failure, fired %v", fired)
	}
	if s.Len() != 1 {
		t.Fatalf("expected remaining task to stay registered, got %d", s.Len())
	}
	if _, err := s.RunPending(context.Background()); err != nil {
		t.Fatalf("RunPending: %v", err)
	}
	if len(fired) != 1 {
		t.Fatalf("expected good task on next tick, got %v", fired)
	}
}

func TestScheduler_RemoveAndPurge(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 20, 6, 0, 0, 0, time.UTC)}
	s := New(clock.Now)
	noop := func(context.Context) (Result, error) { return Continue, nil }

	id := s.Add(Task{Name: "a", Group: "2025-10-20", At: clock.now.Add(time.Hour), Recurrence: Daily, Action: noop})
	s.Add(Task{Name: "b", Group: "2025-10-20", At: clock.now.Add(2 * time.Hour), Action: noop})
	s.Add(Task{Name: "c", At: clock.now.Add(3 * time.Hour), Action: noop})
	s.Add(Task{Name: "d", At: clock.now.Add(4 * time.Hour), Recurrence: Daily, Action: noop})

	if id == "" {
		t.Fatal("expected generated task id")
	}
	if !s.Remove(id) {
		t.Fatal("expected Remove to succeed")
	}
	if s.Remove(id) {
		t.Fatal("expected second Remove to report missing task")
	}
	if n := s.PurgeGroup("2025-10-20"); n != 1 {
		t.Fatalf("expected 1 purged by group, got %d", n)
	}
	if n := s.PurgeOnce(); n != 1 {
		t.Fatalf("expected 1 once task purged, got %d", n)
	}
	pending := s.Pending()
	if len(pending) != 1 || pending[0].Name != "d" || pending[0].Recurrence != "daily" {
		t.Fatalf("unexpected pending tasks: %+v", pending)
	}
}

func TestScheduler_ContextCancelled(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)}
	s := New(clock.Now)
	var fired []string
	s.Add(Task{Name: "x", At: clock.now, Action: recordAction(&fired, "x", Continue)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.RunPending(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(fired) != 0 || s.Len() != 1 {
		t.Fatal("expected task to stay registered and unfired")
	}
}

func TestNextDaily_SkipsToTomorrowWhenPassed(t *testing.T) {
	at := time.Date(2025, 10, 20, 13, 0, 0, 0, time.UTC)
	now := time.Date(2025, 10, 20, 13, 0, 30, 0, time.UTC)
	got := nextDaily(at, now)
	want := time.Date(2025, 10, 21, 13, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
