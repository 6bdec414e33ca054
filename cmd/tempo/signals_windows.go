//go:build windows

package main

// watchSignals is a no-op on Windows: there is no SIGCONT/SIGUSR1
// equivalent, and suspend recovery is handled by the engine's probe.
func watchSignals(catchUp, togglePause func()) {}
