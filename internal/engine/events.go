package engine

import (
	"time"

	"github.com/Mavwarf/tempo/internal/schedule"
)

// State is the lifecycle state of the engine. Exactly one value holds at
// any instant; the engine is the only writer.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateWaiting State = "waiting"
	StateDone    State = "done"
)

// EventType defines the type of engine event.
type EventType string

const (
	// EventStateChange marks a lifecycle transition (start, pause,
	// resume, continue, undo, reset).
	EventStateChange EventType = "state_change"
	// EventProgress is a countdown update within the current segment.
	EventProgress EventType = "progress"
	// EventTransition marks a segment boundary: Finished holds the
	// segment that ended, Outcome how it ended.
	EventTransition EventType = "transition"
	// EventCompleted marks exhaustion of a finite timeline.
	EventCompleted EventType = "completed"
)

// Outcomes for a finished segment.
const (
	OutcomeCompleted = "completed"
	OutcomeSkipped   = "skipped"
)

// Event is a read-only projection of engine state delivered to observers.
type Event struct {
	Type      EventType
	State     State
	Segment   schedule.Segment
	Finished  *schedule.Segment
	Outcome   string
	Remaining int
	Position  int
	Cycles    int
	At        time.Time
}

// Snapshot captures the engine position before a destructive change so a
// single skip can be undone. At most one snapshot exists at a time.
type Snapshot struct {
	Position  int
	Remaining int
	State     State
	Cycles    int
}
