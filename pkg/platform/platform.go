// Package platform provides constants and helpers for handling
// platform-specific behavior such as executable naming and install layouts.
package platform

import (
	"fmt"
	"runtime"
)

const (
	// OSWindows represents the Windows operating system.
	OSWindows = "windows"
	// OSLinux represents the Linux operating system.
	OSLinux = "linux"
	// OSDarwin represents the macOS operating system.
	OSDarwin = "darwin"
)

// Platform represents the operating system and architecture a process runs on.
type Platform struct {
	OS   string
	Arch string
}

// Current returns the platform of the running process.
func Current() Platform {
	return Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
}

// String returns a string representation of the platform.
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// IsWindows reports whether the running process is on Windows.
func IsWindows() bool {
	return runtime.GOOS == OSWindows
}

// ExeName appends the platform executable suffix to a bare command name.
func ExeName(name string) string {
	if IsWindows() {
		return name + ".exe"
	}
	return name
}
