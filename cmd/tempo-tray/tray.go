package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/png"
	"runtime"
	"time"

	"github.com/energye/systray"

	"github.com/Mavwarf/tempo/internal/audio"
	"github.com/Mavwarf/tempo/internal/engine"
	"github.com/Mavwarf/tempo/internal/icon"
	"github.com/Mavwarf/tempo/internal/schedule"
)

// runTray starts the tray icon and blocks until Quit. The calling
// goroutine is locked to an OS thread so that the hidden window created
// by systray and its message loop share the same thread.
func runTray(eng *engine.Engine, player *audio.Player) {
	runtime.LockOSThread()
	systray.Run(func() { onTrayReady(eng, player) }, func() {})
}

// trayIcon renders the shared app icon to PNG in memory.
func trayIcon() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, icon.Draw(64)); err != nil {
		return nil
	}
	return buf.Bytes()
}

// pngToICO wraps raw PNG bytes in a minimal ICO container.
// Windows LoadImage(IMAGE_ICON) requires ICO format; since Vista,
// ICO supports embedded PNG data directly.
func pngToICO(png []byte) []byte {
	buf := new(bytes.Buffer)
	// ICONDIR header
	binary.Write(buf, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(buf, binary.LittleEndian, uint16(1)) // type: 1 = ICO
	binary.Write(buf, binary.LittleEndian, uint16(1)) // count: 1 image

	// ICONDIRENTRY
	buf.WriteByte(0)  // width (0 = 256)
	buf.WriteByte(0)  // height (0 = 256)
	buf.WriteByte(0)  // color count
	buf.WriteByte(0)  // reserved
	binary.Write(buf, binary.LittleEndian, uint16(1))        // color planes
	binary.Write(buf, binary.LittleEndian, uint16(32))       // bits per pixel
	binary.Write(buf, binary.LittleEndian, uint32(len(png))) // image data size
	binary.Write(buf, binary.LittleEndian, uint32(6+1*16))   // offset to image data (header + 1 entry)

	// PNG data
	buf.Write(png)
	return buf.Bytes()
}

func onTrayReady(eng *engine.Engine, player *audio.Player) {
	systray.SetIcon(pngToICO(trayIcon()))
	systray.SetTooltip("tempo")

	mToggle := systray.AddMenuItem("Start", "Start the timer")
	mSkip := systray.AddMenuItem("Skip", "Skip to the next segment")
	mUndo := systray.AddMenuItem("Undo skip", "Restore the segment that was skipped")
	mReset := systray.AddMenuItem("Reset", "Stop and rewind to the beginning")

	systray.AddSeparator()

	mQuit := systray.AddMenuItem("Quit", "Exit tempo-tray")

	mToggle.Click(func() {
		switch eng.State() {
		case engine.StateIdle:
			// Starting is the user gesture that unlocks audio output.
			player.Activate()
			eng.Start()
		case engine.StateRunning:
			eng.Pause()
		case engine.StatePaused:
			eng.Resume()
		case engine.StateWaiting:
			eng.Continue()
		}
	})
	mSkip.Click(func() { eng.Skip() })
	mUndo.Click(func() { eng.Undo() })
	mReset.Click(func() { eng.Reset() })
	mQuit.Click(func() {
		systray.Quit()
	})

	// Tooltip and toggle label track the engine once a second.
	go func() {
		for range time.Tick(time.Second) {
			systray.SetTooltip(tooltip(eng))
			mToggle.SetTitle(toggleLabel(eng.State()))
		}
	}()
}

func toggleLabel(state engine.State) string {
	switch state {
	case engine.StateRunning:
		return "Pause"
	case engine.StatePaused:
		return "Resume"
	case engine.StateWaiting:
		return "Continue"
	}
	return "Start"
}

func tooltip(eng *engine.Engine) string {
	switch eng.State() {
	case engine.StateIdle:
		return "tempo — idle"
	case engine.StateDone:
		return "tempo — done"
	}

	seg, ok := eng.CurrentSegment()
	if !ok {
		return "tempo"
	}
	remaining := eng.Remaining()
	state := ""
	switch eng.State() {
	case engine.StatePaused:
		state = " (paused)"
	case engine.StateWaiting:
		state = " (waiting)"
	}
	return fmt.Sprintf("tempo — %s %d:%02d%s",
		schedule.Label(seg.Kind), remaining/60, remaining%60, state)
}
