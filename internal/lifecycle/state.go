package lifecycle

import (
	"fmt"
	"sort"
	"time"
)

// Status is the lifecycle stage of one meeting link.
type Status int

const (
	Pending Status = iota
	JoinAttempted
	ManualCheckPending
	Joined
	Left
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case JoinAttempted:
		return "JoinAttempted"
	case ManualCheckPending:
		return "ManualCheckPending"
	case Joined:
		return "Joined"
	case Left:
		return "Left"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name written by MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	for st := Pending; st <= Left; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("lifecycle: unknown status %q", b)
}

// State is the tracked state of one link.
type State struct {
	Link          string    `json:"link"`
	Status        Status    `json:"status"`
	ManualCheckAt time.Time `json:"manual_check_at,omitempty"`

	checkID string
}

// Tracker holds the state of every link seen today. It is not safe for
// concurrent use; it belongs to the control loop.
type Tracker struct {
	states map[string]*State
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]*State)}
}

// Status returns the status of link, Pending if it was never seen.
func (t *Tracker) Status(link string) Status {
	if s, ok := t.states[link]; ok {
		return s.Status
	}
	return Pending
}

// Joined reports whether link is currently joined.
func (t *Tracker) Joined(link string) bool {
	return t.Status(link) == Joined
}

// Reset forgets every link.
func (t *Tracker) Reset() {
	t.states = make(map[string]*State)
}

// Snapshot returns a copy of every tracked state, ordered by link.
func (t *Tracker) Snapshot() []State {
	out := make([]State, 0, len(t.states))
	for _, s := range t.states {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Link < out[j].Link })
	return out
}

func (t *Tracker) get(link string) *State {
	s, ok := t.states[link]
	if !ok {
		s = &State{Link: link, Status: Pending}
		t.states[link] = s
	}
	return s
}
