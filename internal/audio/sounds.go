package audio

import (
	"math"
	"time"
)

// ToneSegment defines a single tone burst with frequency, duration, and volume.
type ToneSegment struct {
	Frequency float64
	Duration  time.Duration
	Volume    float64 // 0.0 to 1.0
}

// ToneDefinition describes a named notification tone composed of one or
// more segments. Synthesis is declarative; nothing is derived at runtime.
type ToneDefinition struct {
	Name        string
	Description string
	Segments    []ToneSegment
}

const SampleRate = 44100

// Tones is the catalog of built-in notification tones.
var Tones = map[string]ToneDefinition{
	"work": {
		Name:        "work",
		Description: "Bright ascending two-note cue for the start of a work segment",
		Segments: []ToneSegment{
			{Frequency: 523.25, Duration: 120 * time.Millisecond, Volume: 0.6}, // C5
			{Frequency: 783.99, Duration: 220 * time.Millisecond, Volume: 0.7}, // G5
		},
	},
	"break": {
		Name:        "break",
		Description: "Gentle descending two-note cue for the start of a break",
		Segments: []ToneSegment{
			{Frequency: 659.25, Duration: 180 * time.Millisecond, Volume: 0.5}, // E5
			{Frequency: 523.25, Duration: 280 * time.Millisecond, Volume: 0.4}, // C5
		},
	},
	"major": {
		Name:        "major",
		Description: "Three-note wind-down chime for a major break between blocks",
		Segments: []ToneSegment{
			{Frequency: 783.99, Duration: 160 * time.Millisecond, Volume: 0.6}, // G5
			{Frequency: 659.25, Duration: 160 * time.Millisecond, Volume: 0.5}, // E5
			{Frequency: 523.25, Duration: 320 * time.Millisecond, Volume: 0.5}, // C5
		},
	},
	"complete": {
		Name:        "complete",
		Description: "Ascending major chord marking the end of the schedule",
		Segments: []ToneSegment{
			{Frequency: 523.25, Duration: 120 * time.Millisecond, Volume: 0.6}, // C5
			{Frequency: 659.25, Duration: 120 * time.Millisecond, Volume: 0.6}, // E5
			{Frequency: 783.99, Duration: 280 * time.Millisecond, Volume: 0.7}, // G5
		},
	},
	"bell": {
		Name:        "bell",
		Description: "Single clean bell strike",
		Segments: []ToneSegment{
			{Frequency: 880, Duration: 350 * time.Millisecond, Volume: 0.5},
		},
	},
	"blip": {
		Name:        "blip",
		Description: "Ultra-short confirmation blip",
		Segments: []ToneSegment{
			{Frequency: 1000, Duration: 80 * time.Millisecond, Volume: 0.7},
		},
	},
	"pulse": {
		Name:        "pulse",
		Description: "Rapid repeated attention pulse",
		Segments: []ToneSegment{
			{Frequency: 1200, Duration: 80 * time.Millisecond, Volume: 0.7},
			{Frequency: 0, Duration: 40 * time.Millisecond, Volume: 0},
			{Frequency: 1200, Duration: 80 * time.Millisecond, Volume: 0.7},
			{Frequency: 0, Duration: 40 * time.Millisecond, Volume: 0},
			{Frequency: 1200, Duration: 80 * time.Millisecond, Volume: 0.7},
		},
	},
}

// GeneratePCM renders a tone definition to stereo 16-bit signed
// little-endian PCM at 44100 Hz.
func GeneratePCM(def ToneDefinition) []byte {
	totalSamples := 0
	for _, seg := range def.Segments {
		totalSamples += int(float64(SampleRate) * seg.Duration.Seconds())
	}
	// 4 bytes per sample frame (2 channels x 2 bytes per sample)
	buf := make([]byte, 0, totalSamples*4)

	for _, seg := range def.Segments {
		numSamples := int(float64(SampleRate) * seg.Duration.Seconds())
		fadeSamples := SampleRate * 5 / 1000 // 5ms fade in/out

		for i := 0; i < numSamples; i++ {
			t := float64(i) / float64(SampleRate)

			// Envelope to avoid clicks
			envelope := 1.0
			if i < fadeSamples {
				envelope = float64(i) / float64(fadeSamples)
			} else if i > numSamples-fadeSamples {
				envelope = float64(numSamples-i) / float64(fadeSamples)
			}

			var val float64
			if seg.Frequency > 0 {
				val = math.Sin(2*math.Pi*seg.Frequency*t) * seg.Volume * envelope
			}

			sample := int16(val * 32767)
			lo := byte(sample)
			hi := byte(sample >> 8)
			buf = append(buf, lo, hi, lo, hi) // L + R
		}
	}

	return buf
}
