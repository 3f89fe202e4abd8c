package backup

import "errors"

var (
	// ErrNoEntries indicates that a backup was requested but there was
	// nothing to archive.
	ErrNoEntries = errors.New("nothing to back up")
)
