// Tone delivery has two paths. The primary path plays pre-rendered PCM
// through a persistent oto context kept alive by a permanently looping
// zero-amplitude stream, which stops the OS from suspending the device
// while the process is backgrounded. When the context is missing or
// broken, a fallback path hands an encoded WAV to an external OS player.
// Everything here is best-effort: a failed tone never propagates to the
// timer lifecycle.
package audio

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/Mavwarf/tempo/internal/schedule"
)

// Options selects the configured tone names and the global sound switch.
type Options struct {
	Enabled      bool
	WorkTone     string
	BreakTone    string
	CompleteTone string
}

// Player owns the pre-render cache, the live playback context, and its
// keep-alive stream. Create one per process with NewPlayer; the context
// and keep-alive are never torn down once activated.
type Player struct {
	mu      sync.Mutex
	opts    Options
	tones   map[string]*renderedTone
	pending int
	ready   bool

	ctx       *oto.Context
	ctxFailed bool
	keepAlive *oto.Player
}

// renderedTone holds one pre-rendered tone in both delivery formats.
type renderedTone struct {
	pcm []byte // 44100 Hz stereo 16-bit LE, primary path
	wav []byte // same samples in a RIFF container, fallback path
}

// NewPlayer creates a player. Call Prerender once at startup and Activate
// on the first user interaction.
func NewPlayer(opts Options) *Player {
	return &Player{opts: opts, tones: map[string]*renderedTone{}}
}

// Prerender asynchronously renders every catalog tone, plus any
// configured tone that is a .wav/.mp3 file path, to the in-memory cache.
// Readiness is reached only when every tone has been accounted for;
// individual failures are swallowed but still counted so a bad tone can
// never deadlock the ready flag.
func (p *Player) Prerender() {
	files := p.fileTones()

	p.mu.Lock()
	p.pending = len(Tones) + len(files)
	p.mu.Unlock()

	for name, def := range Tones {
		go func(name string, def ToneDefinition) {
			pcm := GeneratePCM(def)
			p.finish(name, &renderedTone{pcm: pcm, wav: EncodeWAV(pcm)})
		}(name, def)
	}
	for _, path := range files {
		go func(path string) {
			pcm, err := loadFileTone(path)
			if err != nil {
				slog.Warn("tone render failed", "path", path, "error", err)
				p.finish(path, nil)
				return
			}
			p.finish(path, &renderedTone{pcm: pcm, wav: EncodeWAV(pcm)})
		}(path)
	}
}

// fileTones returns the configured tone names that refer to audio files.
func (p *Player) fileTones() []string {
	seen := map[string]bool{}
	var files []string
	for _, name := range []string{p.opts.WorkTone, p.opts.BreakTone, p.opts.CompleteTone} {
		if !IsFileTone(name) || seen[name] {
			continue
		}
		seen[name] = true
		files = append(files, name)
	}
	return files
}

// IsFileTone reports whether a tone name refers to an audio file rather
// than a catalog entry.
func IsFileTone(name string) bool {
	switch filepath.Ext(name) {
	case ".wav", ".mp3":
		return true
	}
	return false
}

func loadFileTone(path string) ([]byte, error) {
	if filepath.Ext(path) == ".mp3" {
		return LoadMP3(path)
	}
	return LoadWAV(path)
}

func (p *Player) finish(name string, rt *renderedTone) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rt != nil {
		p.tones[name] = rt
	}
	p.pending--
	if p.pending == 0 {
		p.ready = true
	}
}

// Ready reports whether the pre-render phase has finished.
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Activate creates the live playback context on first call and starts the
// keep-alive stream. On subsequent calls it resumes a suspended context.
// Call it on every user-initiated interaction; hosts refuse unsolicited
// audio activation, and an interaction is the one moment activation is
// allowed. Failures are swallowed; the fallback path covers a missing
// context.
func (p *Player) Activate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		if err := p.ctx.Resume(); err != nil {
			slog.Debug("audio resume failed", "error", err)
		}
		return
	}
	if p.ctxFailed {
		return
	}

	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		p.ctxFailed = true
		slog.Warn("audio context unavailable, falling back to external player", "error", err)
		return
	}
	<-readyChan
	p.ctx = ctx

	// Looping zero-amplitude stream; never closed for the life of the
	// process so the device stays open while backgrounded.
	p.keepAlive = ctx.NewPlayer(silence{})
	p.keepAlive.Play()
}

// Play delivers a named tone at the given volume (0.0-1.0). Suppressed
// until pre-rendering is done and, unless preview, while sound is
// disabled. Never blocks and never fails the caller.
func (p *Player) Play(name string, volume float64, preview bool) {
	p.mu.Lock()
	if !preview && !p.opts.Enabled {
		p.mu.Unlock()
		return
	}
	if !p.ready {
		p.mu.Unlock()
		return
	}
	rt := p.tones[name]
	ctx := p.ctx
	p.mu.Unlock()

	if rt == nil {
		slog.Debug("unknown tone", "name", name)
		return
	}

	if ctx != nil && ctx.Err() == nil {
		pcm := append([]byte(nil), rt.pcm...)
		applyVolume16(pcm, volume)
		pl := ctx.NewPlayer(bytes.NewReader(pcm))
		pl.Play()
		go func() {
			for pl.IsPlaying() {
				time.Sleep(5 * time.Millisecond)
			}
			pl.Close()
		}()
		return
	}

	p.playFallback(rt.wav, volume)
}

// PlayTransition plays the configured tone for the segment kind being
// entered. No-op when sound is disabled.
func (p *Player) PlayTransition(kind schedule.Kind, volume float64) {
	var name string
	switch kind {
	case schedule.Work:
		name = p.opts.WorkTone
	case schedule.Break, schedule.MajorBreak:
		name = p.opts.BreakTone
	default:
		return
	}
	p.Play(name, volume, false)
}

// PlayComplete plays the configured schedule-completion tone.
func (p *Player) PlayComplete(volume float64) {
	p.Play(p.opts.CompleteTone, volume, false)
}

// playFallback writes the encoded tone to a temp file and hands it to an
// external OS player. This path covers machines where the audio device
// could not be opened at all.
func (p *Player) playFallback(wav []byte, volume float64) {
	data := append([]byte(nil), wav...)
	if len(data) > wavHeaderSize {
		// EncodeWAV writes a canonical header, so the sample data starts
		// at a fixed offset.
		applyVolume16(data[wavHeaderSize:], volume)
	}

	f, err := os.CreateTemp("", "tempo-tone-*.wav")
	if err != nil {
		slog.Debug("fallback temp file", "error", err)
		return
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		slog.Debug("fallback write", "error", err)
		return
	}
	f.Close()

	go func() {
		defer os.Remove(f.Name())
		if err := playFile(f.Name()); err != nil {
			slog.Debug("fallback playback failed", "error", err)
		}
	}()
}

// applyVolume16 scales 16-bit signed little-endian PCM samples by the given volume.
func applyVolume16(data []byte, volume float64) {
	if volume >= 1.0 {
		return
	}
	for i := 0; i+1 < len(data); i += 2 {
		sample := int16(data[i]) | int16(data[i+1])<<8
		sample = int16(float64(sample) * volume)
		data[i] = byte(sample)
		data[i+1] = byte(sample >> 8)
	}
}

// silence is an endless zero-amplitude PCM stream.
type silence struct{}

func (silence) Read(b []byte) (int, error) {
	clear(b)
	return len(b), nil
}
