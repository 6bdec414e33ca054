// Package schedule turns a declarative work/break configuration into an
// ordered list of timed segments.
package schedule

import (
	"fmt"
	"time"
)

// Kind identifies the type of a segment.
type Kind string

const (
	Work       Kind = "work"
	Break      Kind = "break"
	MajorBreak Kind = "major_break"
)

// Segment is one timed phase of the schedule. Immutable once created.
type Segment struct {
	Kind     Kind
	Duration time.Duration
}

// Block is a group of work/break cycles, optionally followed by a major
// break separating it from the next block.
type Block struct {
	Cycles     int
	MajorBreak time.Duration
}

// Config describes a full schedule. A major break only separates blocks;
// it never terminates the schedule, so the final block's MajorBreak is
// forced to zero by Normalize.
type Config struct {
	Work   time.Duration
	Break  time.Duration
	Blocks []Block
	Loop   bool
}

// loopChunkPairs is how many work/break pairs a looping timeline
// materializes at a time.
const loopChunkPairs = 20

// Normalize returns a copy of c with the final block's major break zeroed.
func (c Config) Normalize() Config {
	if len(c.Blocks) == 0 {
		return c
	}
	blocks := make([]Block, len(c.Blocks))
	copy(blocks, c.Blocks)
	blocks[len(blocks)-1].MajorBreak = 0
	c.Blocks = blocks
	return c
}

// Validate checks the configuration contract the builder relies on:
// at least one block, cycles >= 1, positive durations. Build itself does
// not defend against invalid input.
func Validate(c Config) error {
	if c.Work <= 0 {
		return fmt.Errorf("schedule: work duration must be positive, got %s", c.Work)
	}
	if c.Break <= 0 {
		return fmt.Errorf("schedule: break duration must be positive, got %s", c.Break)
	}
	if !c.Loop && len(c.Blocks) == 0 {
		return fmt.Errorf("schedule: at least one block required")
	}
	for i, b := range c.Blocks {
		if b.Cycles < 1 {
			return fmt.Errorf("schedule: block %d: cycles must be >= 1, got %d", i+1, b.Cycles)
		}
		if b.MajorBreak < 0 {
			return fmt.Errorf("schedule: block %d: major break must not be negative", i+1)
		}
	}
	return nil
}

// TimelineKind distinguishes a fully materialized timeline from a looping
// one that grows in chunks.
type TimelineKind int

const (
	Finite TimelineKind = iota
	Looping
)

// Timeline is an ordered sequence of segments. A Finite timeline is
// complete at Build time; a Looping timeline holds the currently
// materialized prefix of an unbounded work/break sequence and is grown
// with Extend.
type Timeline struct {
	kind TimelineKind
	segs []Segment
}

// Build expands a configuration into a timeline. Deterministic, no side
// effects. For finite mode it emits every block and cycle; a major break
// replaces the plain break exactly after the last cycle of a non-final
// block with a nonzero major break. For loop mode it emits the initial
// buffer of work/break pairs.
func Build(c Config) *Timeline {
	if c.Loop {
		t := &Timeline{kind: Looping}
		t.appendPairs(c, loopChunkPairs)
		return t
	}

	t := &Timeline{kind: Finite}
	for bi, b := range c.Blocks {
		for cy := 0; cy < b.Cycles; cy++ {
			t.segs = append(t.segs, Segment{Kind: Work, Duration: c.Work})
			lastCycle := cy == b.Cycles-1
			lastBlock := bi == len(c.Blocks)-1
			if lastCycle && !lastBlock && b.MajorBreak > 0 {
				t.segs = append(t.segs, Segment{Kind: MajorBreak, Duration: b.MajorBreak})
			} else {
				t.segs = append(t.segs, Segment{Kind: Break, Duration: c.Break})
			}
		}
	}
	return t
}

// Extend appends another chunk of work/break pairs to a looping timeline.
// The caller must extend before its read position passes the materialized
// end; running off the end anyway is a defect, not a recoverable state.
func (t *Timeline) Extend(c Config) {
	if t.kind != Looping {
		return
	}
	t.appendPairs(c, loopChunkPairs)
}

func (t *Timeline) appendPairs(c Config, pairs int) {
	for i := 0; i < pairs; i++ {
		t.segs = append(t.segs,
			Segment{Kind: Work, Duration: c.Work},
			Segment{Kind: Break, Duration: c.Break},
		)
	}
}

// Kind reports whether the timeline is finite or looping.
func (t *Timeline) Kind() TimelineKind { return t.kind }

// Len returns the number of materialized segments.
func (t *Timeline) Len() int { return len(t.segs) }

// At returns the segment at position i. Panics if i is out of the
// materialized range.
func (t *Timeline) At(i int) Segment { return t.segs[i] }

// Label returns a human-readable name for a segment kind.
func Label(k Kind) string {
	switch k {
	case Work:
		return "Work"
	case Break:
		return "Break"
	case MajorBreak:
		return "Major break"
	}
	return string(k)
}
