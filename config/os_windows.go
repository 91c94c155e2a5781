//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

const reservedNameChars = `<>":/\|?*`

// virtual terminal processing is only understood by Windows 10 console and
// later
const minVTMajorVersion = 10

const enableVirtualTerminalProcessing uint32 = 0x4

// EnableColorOutput switches console to VT100 mode when stream is a terminal
// which supports it.
func EnableColorOutput(stream *os.File) bool {
	if windows.RtlGetVersion().MajorVersion < minVTMajorVersion {
		return false
	}
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|enableVirtualTerminalProcessing) == nil
}
