package scheduler

import (
	"testing"
	"time"
)

func TestHeapPushPopOrdering(t *testing.T) {
	h := &taskHeap{}
	base := time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)

	heapPush(h, &Task{ID: "late", At: base.Add(3 * time.Hour), seq: 1})
	heapPush(h, &Task{ID: "early", At: base.Add(1 * time.Hour), seq: 2})
	heapPush(h, &Task{ID: "middle", At: base.Add(2 * time.Hour), seq: 3})

	for _, want := range []string{"early", "middle", "late"} {
		if got := heapPop(h).ID; got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestHeapEqualTimesKeepRegistrationOrder(t *testing.T) {
	h := &taskHeap{}
	same := time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)

	heapPush(h, &Task{ID: "c", At: same, seq: 3})
	heapPush(h, &Task{ID: "a", At: same, seq: 1})
	heapPush(h, &Task{ID: "b", At: same, seq: 2})

	for _, want := range []string{"a", "b", "c"} {
		if got := heapPop(h).ID; got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestHeapRemoveFunc(t *testing.T) {
	h := &taskHeap{}
	base := time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)
	heapPush(h, &Task{ID: "a", Group: "mon", At: base, seq: 1})
	heapPush(h, &Task{ID: "b", Group: "tue", At: base.Add(time.Hour), seq: 2})
	heapPush(h, &Task{ID: "c", Group: "mon", At: base.Add(2 * time.Hour), seq: 3})

	removed := heapRemoveFunc(h, func(t *Task) bool { return t.Group == "mon" })
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if h.Len() != 1 || heapPop(h).ID != "b" {
		t.Fatal("expected only b to remain")
	}

	if heapRemoveFunc(h, func(*Task) bool { return true }) != 0 {
		t.Fatal("expected no removal from empty heap")
	}
}
