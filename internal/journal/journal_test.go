package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	base := time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Day: "2025-10-20", Link: "https://meet/a", Status: "JoinAttempted", At: base},
		{Day: "2025-10-20", Link: "https://meet/a", Status: "Joined", At: base.Add(10 * time.Second)},
		{Day: "2025-10-20", Link: "https://meet/a", Status: "Left", At: base.Add(2 * time.Hour), Note: "leave marker not found"},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Status != "Left" || got[1].Status != "Joined" {
		t.Fatalf("expected newest first, got %s then %s", got[0].Status, got[1].Status)
	}
	if got[0].Note != "leave marker not found" {
		t.Fatalf("note not persisted: %q", got[0].Note)
	}
	if !got[0].At.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("timestamp not persisted: %v", got[0].At)
	}
}

func TestRecord_StampsZeroTime(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	before := time.Now()
	if err := j.Record(ctx, Entry{Day: "d", Link: "l", Status: "Pending"}); err != nil {
		t.Fatal(err)
	}
	got, err := j.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].At.Before(before.Add(-time.Second)) {
		t.Fatalf("expected stamped entry, got %+v", got)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Record(context.Background(), Entry{Day: "d", Link: "l", Status: "Joined"}); err != nil {
		t.Fatal(err)
	}
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	got, err := j.Recent(context.Background(), 10)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected persisted entry, got %v err=%v", got, err)
	}
}

func TestClosed(t *testing.T) {
	j := openTemp(t)
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := j.Record(context.Background(), Entry{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := j.Recent(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
