//go:build !windows

package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// watchSignals wires process signals to timer actions:
//   - SIGCONT: the process was resumed after a suspend, realign the
//     deadline-based clock immediately instead of at the next probe
//   - SIGUSR1: toggle pause, for scripting and window-manager keybinds
func watchSignals(catchUp, togglePause func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, unix.SIGCONT, unix.SIGUSR1)
	go func() {
		for sig := range ch {
			switch sig {
			case unix.SIGCONT:
				catchUp()
			case unix.SIGUSR1:
				togglePause()
			}
		}
	}()
}
