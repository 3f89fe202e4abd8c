package toolcache

import (
	"context"
	"os/exec"
)

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Run executes the named command and returns its combined stdout and stderr.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
