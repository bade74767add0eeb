package common

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vbauerster/mpb/v8/decor"
)

func TestCountdownLifecycle(t *testing.T) {
	var buf bytes.Buffer
	c := NewCountdown(&buf)
	from := time.Date(2025, 10, 18, 22, 0, 0, 0, time.UTC)
	until := time.Date(2025, 10, 19, 6, 0, 0, 0, time.UTC)

	c.Start(from, until)
	if c.bar == nil {
		t.Fatal("expected a bar after Start")
	}
	c.Update(from.Add(4 * time.Hour))
	c.Done()
	if c.bar != nil || c.p != nil {
		t.Fatal("expected Done to release the bar")
	}
	// second Done is a no-op
	c.Done()
}

func TestCountdownIgnoresEmptyRange(t *testing.T) {
	c := NewCountdown(&bytes.Buffer{})
	now := time.Now()
	c.Start(now, now.Add(-time.Minute))
	if c.bar != nil {
		t.Fatal("no bar expected for a range in the past")
	}
	c.Update(now)
	c.Done()
}

func TestCountdownRestartReplacesBar(t *testing.T) {
	c := NewCountdown(&bytes.Buffer{})
	from := time.Date(2025, 10, 18, 22, 0, 0, 0, time.UTC)
	c.Start(from, from.Add(8*time.Hour))
	first := c.bar
	c.Start(from.Add(24*time.Hour), from.Add(32*time.Hour))
	if c.bar == nil || c.bar == first {
		t.Fatal("expected a fresh bar for the second sleep")
	}
	c.Done()
}

func TestRemaining(t *testing.T) {
	got := remaining(decor.Statistics{Total: 3 * 3600, Current: 1800})
	if !strings.HasPrefix(got, "2h30m") {
		t.Fatalf("unexpected remaining text %q", got)
	}
	if got := remaining(decor.Statistics{Total: 10, Current: 20}); got != "0s left" {
		t.Fatalf("expected clamp to zero, got %q", got)
	}
}
