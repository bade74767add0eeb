package server

import (
	"sync"
	"time"

	"github.com/warpdl/autoattend/internal/config"
	"github.com/warpdl/autoattend/internal/lifecycle"
	"github.com/warpdl/autoattend/internal/scheduler"
)

// SlotView is a configured meeting as reported over RPC.
type SlotView struct {
	Join  string `json:"join"`
	Leave string `json:"leave"`
	Link  string `json:"link"`
}

// Snapshot is the state of the control loop as of its last tick.
type Snapshot struct {
	Day         string               `json:"day"`
	IsClassDay  bool                 `json:"isClassDay"`
	Reason      string               `json:"reason"`
	Slots       []SlotView           `json:"slots"`
	Meetings    []lifecycle.State    `json:"meetings"`
	Tasks       []scheduler.TaskInfo `json:"tasks"`
	Restarts    int                  `json:"restarts"`
	MaxRestarts int                  `json:"maxRestarts"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// NewSlotViews converts configured slots for reporting.
func NewSlotViews(slots []config.Slot) []SlotView {
	out := make([]SlotView, len(slots))
	for i, s := range slots {
		out[i] = SlotView{Join: s.Join.String(), Leave: s.Leave.String(), Link: s.Link}
	}
	return out
}

// SnapshotStore hands snapshots from the control loop to RPC handlers. The
// control loop is the only writer.
type SnapshotStore struct {
	mu   sync.RWMutex
	snap Snapshot
}

// Publish replaces the current snapshot.
func (s *SnapshotStore) Publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// Load returns the current snapshot.
func (s *SnapshotStore) Load() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
