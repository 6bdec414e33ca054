// Package engine owns the timer lifecycle: current position in the
// schedule, remaining time, and state transitions. Remaining time is
// always recomputed from an absolute wall-clock deadline, never counted
// down in fixed steps, so the engine stays correct when the process is
// throttled, suspended, or missed ticks entirely.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Mavwarf/tempo/internal/schedule"
)

// DefaultProbeInterval is the coarse countdown-update interval.
const DefaultProbeInterval = 250 * time.Millisecond

// DefaultUndoWindow is how long a skip stays undoable.
const DefaultUndoWindow = 4 * time.Second

// Notifier receives phase-change and completion callbacks. Calls are made
// with the engine lock held; implementations must not call back into the
// engine and should hand off slow work to goroutines.
type Notifier interface {
	PhaseChange(seg schedule.Segment, cycles int)
	Completed()
}

// Options configures an Engine.
type Options struct {
	Clock         Clock
	Notifier      Notifier
	AutoContinue  bool // advance into the next segment without waiting for the user
	ProbeInterval time.Duration
	UndoWindow    time.Duration
}

// Engine is the timer state machine. All mutation happens synchronously
// under one mutex; the probe goroutine, one-shot wake, and UI calls are
// the only entry points.
type Engine struct {
	mu            sync.Mutex
	cfg           schedule.Config
	clock         Clock
	notifier      Notifier
	autoContinue  bool
	probeInterval time.Duration
	undoWindow    time.Duration

	state     State
	timeline  *schedule.Timeline
	pos       int
	remaining int // whole seconds, ceil of deadline-now while running
	deadline  time.Time
	cycles    int

	// One-slot undo snapshot. snapSeq invalidates the expiry timer of a
	// snapshot that has been replaced or consumed.
	snap      *Snapshot
	snapSeq   uint64
	snapTimer Timer

	// wakeSeq invalidates a pending one-shot wake whose deadline no
	// longer matches engine state. Pause, reset, and skip bump it before
	// arming a new wake so a stale timer can never fire against updated
	// state.
	wake    Timer
	wakeSeq uint64

	probeStop chan struct{}

	events []chan Event
}

// New creates an engine for the given schedule. The configuration is
// normalized (final block's major break forced to zero) and treated as
// immutable for the duration of a run.
func New(cfg schedule.Config, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = DefaultProbeInterval
	}
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = DefaultUndoWindow
	}
	return &Engine{
		cfg:           cfg.Normalize(),
		clock:         opts.Clock,
		notifier:      opts.Notifier,
		autoContinue:  opts.AutoContinue,
		probeInterval: opts.ProbeInterval,
		undoWindow:    opts.UndoWindow,
		state:         StateIdle,
	}
}

// SetConfig replaces the schedule configuration. Only honored while Idle;
// a running timeline is immutable until reset.
func (e *Engine) SetConfig(cfg schedule.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateIdle {
		return
	}
	e.cfg = cfg.Normalize()
}

// Subscribe registers a new observer channel. Sends are non-blocking; a
// slow observer misses events rather than stalling the engine.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	e.mu.Lock()
	e.events = append(e.events, ch)
	e.mu.Unlock()
	return ch
}

// Close stops all timers, including a pending snapshot expiry, and
// closes observer channels.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopTimersLocked()
	e.dropSnapshotLocked()
	events := e.events
	e.events = nil
	e.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start builds the timeline and enters the first segment. No-op unless
// Idle.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateIdle {
		return
	}

	now := e.clock.Now()
	e.timeline = schedule.Build(e.cfg)
	e.pos = 0
	e.cycles = 0
	seg := e.timeline.At(0)
	e.remaining = ceilSeconds(seg.Duration)
	e.deadline = now.Add(seg.Duration)
	e.state = StateRunning
	e.startTimersLocked(now)

	slog.Debug("engine start", "segment", seg.Kind, "remaining", e.remaining)
	if e.notifier != nil {
		e.notifier.PhaseChange(seg, e.cycles)
	}
	e.emitLocked(EventStateChange, nil, "", now)
}

// Pause freezes the countdown. Remaining time is recomputed from the
// deadline one last time so resume restores it exactly.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning {
		return
	}

	now := e.clock.Now()
	e.remaining = ceilSeconds(e.deadline.Sub(now))
	e.deadline = time.Time{}
	e.stopTimersLocked()
	e.state = StatePaused
	e.emitLocked(EventStateChange, nil, "", now)
}

// Resume continues a paused countdown with a fresh deadline.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePaused {
		return
	}
	e.resumeLocked()
}

// Continue leaves the Waiting state entered at a segment boundary when
// auto-continue is off.
func (e *Engine) Continue() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateWaiting {
		return
	}
	e.resumeLocked()
}

func (e *Engine) resumeLocked() {
	now := e.clock.Now()
	e.deadline = now.Add(time.Duration(e.remaining) * time.Second)
	e.state = StateRunning
	e.startTimersLocked(now)
	e.emitLocked(EventStateChange, nil, "", now)
}

// Skip abandons the current segment and advances one position, capturing
// a snapshot first so the skip can be undone. Valid in Running, Paused,
// and Waiting.
func (e *Engine) Skip() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning && e.state != StatePaused && e.state != StateWaiting {
		return
	}

	now := e.clock.Now()
	if e.state == StateRunning {
		e.remaining = ceilSeconds(e.deadline.Sub(now))
	}
	e.takeSnapshotLocked()

	finished := e.timeline.At(e.pos)
	if !e.advanceLocked(finished) {
		e.completeLocked(&finished, OutcomeSkipped, now)
		return
	}

	seg := e.timeline.At(e.pos)
	e.remaining = ceilSeconds(seg.Duration)
	if e.state == StateRunning {
		e.deadline = now.Add(seg.Duration)
		e.armWakeLocked(now)
	} else {
		e.deadline = time.Time{}
	}

	if e.notifier != nil {
		e.notifier.PhaseChange(seg, e.cycles)
	}
	e.emitLocked(EventTransition, &finished, OutcomeSkipped, now)
}

// Undo restores the state captured by the most recent Skip. A no-op once
// the snapshot has been consumed or has expired.
func (e *Engine) Undo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap == nil {
		return
	}

	s := *e.snap
	e.dropSnapshotLocked()

	now := e.clock.Now()
	e.pos = s.Position
	e.remaining = s.Remaining
	e.cycles = s.Cycles
	e.state = s.State
	if e.state == StateRunning {
		e.deadline = now.Add(time.Duration(e.remaining) * time.Second)
		e.startTimersLocked(now)
	} else {
		e.deadline = time.Time{}
		e.stopTimersLocked()
	}
	e.emitLocked(EventStateChange, nil, "", now)
}

// Reset discards the timeline and returns to Idle from any state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		return
	}

	e.stopTimersLocked()
	e.dropSnapshotLocked()
	e.timeline = nil
	e.pos = 0
	e.remaining = 0
	e.cycles = 0
	e.deadline = time.Time{}
	e.state = StateIdle
	e.emitLocked(EventStateChange, nil, "", e.clock.Now())
}

// CatchUp forces an immediate tick. Wired to foreground-return signals so
// the countdown corrects instantly instead of waiting for the next probe.
func (e *Engine) CatchUp() {
	e.tick()
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Remaining returns the remaining whole seconds of the current segment.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// Position returns the current segment index.
func (e *Engine) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos
}

// Cycles returns the loop-mode work cycle counter.
func (e *Engine) Cycles() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cycles
}

// CurrentSegment returns the segment at the current position and true,
// or a zero segment and false while Idle or Done.
func (e *Engine) CurrentSegment() (schedule.Segment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timeline == nil || e.pos >= e.timeline.Len() || e.state == StateIdle || e.state == StateDone {
		return schedule.Segment{}, false
	}
	return e.timeline.At(e.pos), true
}

// UndoPending reports whether an undoable snapshot exists.
func (e *Engine) UndoPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap != nil
}

// tick recomputes remaining time from the deadline and crosses the
// segment boundary if it has been reached. Called by the coarse probe,
// the precise one-shot wake, and CatchUp.
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning {
		return
	}

	now := e.clock.Now()
	rem := ceilSeconds(e.deadline.Sub(now))
	if rem > 0 {
		e.remaining = rem
		e.emitLocked(EventProgress, nil, "", now)
		return
	}
	e.boundaryLocked(now)
}

// boundaryLocked advances past the segment whose deadline has passed.
// When a single late tick has crossed several boundaries (heavy
// throttling with short segments), it walks the missed segments with the
// deadline accumulating segment durations, counting work cycles along the
// way, and notifies only for the segment finally entered.
func (e *Engine) boundaryLocked(now time.Time) {
	for {
		finished := e.timeline.At(e.pos)
		if !e.advanceLocked(finished) {
			e.completeLocked(&finished, OutcomeCompleted, now)
			return
		}

		seg := e.timeline.At(e.pos)

		if !e.autoContinue {
			e.stopTimersLocked()
			e.state = StateWaiting
			e.remaining = ceilSeconds(seg.Duration)
			e.deadline = time.Time{}
			if e.notifier != nil {
				e.notifier.PhaseChange(seg, e.cycles)
			}
			e.emitLocked(EventTransition, &finished, OutcomeCompleted, now)
			return
		}

		e.deadline = e.deadline.Add(seg.Duration)
		if e.deadline.After(now) {
			e.remaining = ceilSeconds(e.deadline.Sub(now))
			e.armWakeLocked(now)
			if e.notifier != nil {
				e.notifier.PhaseChange(seg, e.cycles)
			}
			e.emitLocked(EventTransition, &finished, OutcomeCompleted, now)
			return
		}

		// This segment elapsed in full while we were throttled. Record
		// the crossing and keep walking.
		slog.Debug("engine catch-up crossing", "segment", seg.Kind, "position", e.pos)
		e.emitLocked(EventTransition, &finished, OutcomeCompleted, now)
	}
}

// advanceLocked moves the position forward one segment, counting loop
// cycles and extending the loop buffer. Returns false when a finite
// timeline is exhausted.
func (e *Engine) advanceLocked(finished schedule.Segment) bool {
	if finished.Kind == schedule.Work && e.timeline.Kind() == schedule.Looping {
		e.cycles++
	}
	e.pos++

	if e.timeline.Kind() == schedule.Looping {
		// Keep at least one full pair materialized past the position.
		if e.timeline.Len()-e.pos <= 2 {
			e.timeline.Extend(e.cfg)
		}
		return true
	}
	return e.pos < e.timeline.Len()
}

// completeLocked enters Done after the last segment of a finite timeline.
// The timeline is kept so an undone skip can restore into it.
func (e *Engine) completeLocked(finished *schedule.Segment, outcome string, now time.Time) {
	e.stopTimersLocked()
	e.state = StateDone
	e.remaining = 0
	e.deadline = time.Time{}
	if e.notifier != nil {
		e.notifier.Completed()
	}
	ev := e.baseEventLocked(EventCompleted, now)
	ev.Finished = finished
	ev.Outcome = outcome
	e.sendLocked(ev)
}

func (e *Engine) takeSnapshotLocked() {
	e.snapSeq++
	if e.snapTimer != nil {
		e.snapTimer.Stop()
	}
	e.snap = &Snapshot{
		Position:  e.pos,
		Remaining: e.remaining,
		State:     e.state,
		Cycles:    e.cycles,
	}
	seq := e.snapSeq
	e.snapTimer = e.clock.AfterFunc(e.undoWindow, func() {
		e.mu.Lock()
		if e.snapSeq == seq {
			e.snap = nil
			e.snapTimer = nil
		}
		e.mu.Unlock()
	})
}

func (e *Engine) dropSnapshotLocked() {
	e.snapSeq++
	if e.snapTimer != nil {
		e.snapTimer.Stop()
		e.snapTimer = nil
	}
	e.snap = nil
}

// startTimersLocked launches the coarse probe loop (if not already
// running) and arms the precise one-shot wake for the current deadline.
func (e *Engine) startTimersLocked(now time.Time) {
	if e.probeStop == nil {
		stop := make(chan struct{})
		e.probeStop = stop
		go e.probe(stop)
	}
	e.armWakeLocked(now)
}

func (e *Engine) stopTimersLocked() {
	e.wakeSeq++
	if e.wake != nil {
		e.wake.Stop()
		e.wake = nil
	}
	if e.probeStop != nil {
		close(e.probeStop)
		e.probeStop = nil
	}
}

// armWakeLocked schedules the one-shot wake for the current deadline,
// invalidating any previously armed wake. Coarse periodic timers are
// unreliable in backgrounded processes; a one-shot for an absolute future
// instant fires much closer to on-time.
func (e *Engine) armWakeLocked(now time.Time) {
	e.wakeSeq++
	if e.wake != nil {
		e.wake.Stop()
	}
	seq := e.wakeSeq
	d := e.deadline.Sub(now)
	if d < 0 {
		d = 0
	}
	e.wake = e.clock.AfterFunc(d, func() { e.wakeFire(seq) })
}

func (e *Engine) wakeFire(seq uint64) {
	e.mu.Lock()
	stale := seq != e.wakeSeq || e.state != StateRunning
	e.mu.Unlock()
	if stale {
		slog.Debug("engine stale wake ignored", "seq", seq)
		return
	}
	e.tick()
}

func (e *Engine) probe(stop chan struct{}) {
	ticker := time.NewTicker(e.probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) emitLocked(typ EventType, finished *schedule.Segment, outcome string, now time.Time) {
	ev := e.baseEventLocked(typ, now)
	ev.Finished = finished
	ev.Outcome = outcome
	e.sendLocked(ev)
}

func (e *Engine) baseEventLocked(typ EventType, now time.Time) Event {
	ev := Event{
		Type:      typ,
		State:     e.state,
		Remaining: e.remaining,
		Position:  e.pos,
		Cycles:    e.cycles,
		At:        now,
	}
	if e.timeline != nil && e.pos < e.timeline.Len() {
		ev.Segment = e.timeline.At(e.pos)
	}
	return ev
}

func (e *Engine) sendLocked(ev Event) {
	for _, ch := range e.events {
		select {
		case ch <- ev:
		default:
		}
	}
}

// ceilSeconds rounds a duration up to whole seconds, clamping at zero.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
