package idle

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32            = windows.NewLazySystemDLL("user32.dll")
	kernel32          = windows.NewLazySystemDLL("kernel32.dll")
	pGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	pGetTickCount64   = kernel32.NewProc("GetTickCount64")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

// IdleSeconds returns seconds since the last input event on Windows.
// GetLastInputInfo reports a 32-bit tick of the last input; subtracting
// it from the current tick count gives the idle span in milliseconds.
func IdleSeconds() (float64, error) {
	var lii lastInputInfo
	lii.cbSize = uint32(unsafe.Sizeof(lii))

	r, _, err := pGetLastInputInfo.Call(uintptr(unsafe.Pointer(&lii)))
	if r == 0 {
		return 0, fmt.Errorf("GetLastInputInfo: %w", err)
	}

	ticks, _, _ := pGetTickCount64.Call()

	idleMs := uint64(ticks) - uint64(lii.dwTime)
	return float64(idleMs) / 1000.0, nil
}
