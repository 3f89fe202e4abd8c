package sweep

import "fmt"

// Common sweep errors.
var (
	// ErrWorkspaceEmpty is returned when no workspace path was given.
	ErrWorkspaceEmpty = fmt.Errorf("workspace path cannot be empty")

	// ErrWorkspaceNotFound is returned when the workspace does not exist.
	ErrWorkspaceNotFound = fmt.Errorf("workspace does not exist")

	// ErrWorkspaceNotDir is returned when the workspace path is not a directory.
	ErrWorkspaceNotDir = fmt.Errorf("workspace is not a directory")
)
