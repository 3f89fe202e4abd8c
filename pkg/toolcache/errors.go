package toolcache

import "errors"

var (
	// ErrNoTool indicates that a purge was requested for a tool that was not
	// discovered on this system.
	ErrNoTool = errors.New("tool not available")
	// ErrPurgeFailed indicates that the purge command ran but exited with an
	// error.
	ErrPurgeFailed = errors.New("purge command failed")
	// ErrVersionUnknown indicates that the tool's version output could not be
	// parsed.
	ErrVersionUnknown = errors.New("tool version unknown")
)
