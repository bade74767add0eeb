package scheduler

import "container/heap"

// taskHeap implements container/heap.Interface for *Task, sorted by At
// (earliest first) and then by registration sequence.
type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].At.Equal(h[j].At) {
		return h[i].seq < h[j].seq
	}
	return h[i].At.Before(h[j].At)
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(*Task))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// heapPush adds a task to the heap, maintaining heap invariant.
func heapPush(h *taskHeap, t *Task) {
	heap.Push(h, t)
}

// heapPop removes and returns the earliest task. Panics if the heap is empty.
func heapPop(h *taskHeap) *Task {
	return heap.Pop(h).(*Task)
}

// heapRemoveFunc removes every task for which match returns true and
// reports how many were removed.
func heapRemoveFunc(h *taskHeap, match func(*Task) bool) int {
	kept := (*h)[:0]
	removed := 0
	for _, t := range *h {
		if match(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(*h); i++ {
		(*h)[i] = nil
	}
	*h = kept
	if removed > 0 {
		heap.Init(h)
	}
	return removed
}
