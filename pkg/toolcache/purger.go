// Package toolcache purges the on-disk caches of package managers such as
// conda and pip. Purges are best effort: a tool that is not installed is
// skipped by the caller, and a failing purge reports the command's output
// without aborting anything else.
package toolcache

import (
	"context"
	"strings"

	"github.com/glorpus-work/pysweep/internal/logger"
	"github.com/glorpus-work/pysweep/pkg/discover"
	"github.com/glorpus-work/pysweep/pkg/errors"
)

// outputTailLen bounds how much command output is carried into an error.
const outputTailLen = 200

// Purger runs the cache purge commands of discovered tools.
type Purger struct {
	runner Runner
}

// NewPurger creates a Purger that executes commands through the given runner.
func NewPurger(runner Runner) *Purger {
	return &Purger{runner: runner}
}

// NewDefaultPurger creates a Purger backed by os/exec.
func NewDefaultPurger() *Purger {
	return NewPurger(ExecRunner{})
}

// PurgeConda runs `conda clean --all --yes` for the given tool.
func (p *Purger) PurgeConda(ctx context.Context, tool *discover.Tool) error {
	return p.purge(ctx, tool, condaCleanArgs)
}

// PurgePip runs `pip cache purge` for the given tool.
func (p *Purger) PurgePip(ctx context.Context, tool *discover.Tool) error {
	return p.purge(ctx, tool, pipPurgeArgs)
}

func (p *Purger) purge(ctx context.Context, tool *discover.Tool, args []string) error {
	if tool == nil {
		return ErrNoTool
	}
	logger.Debug("Purging tool cache", logger.Fields{
		"tool": tool.Name,
		"exe":  tool.Exe,
		"args": strings.Join(args, " "),
	})
	output, err := p.runner.Run(ctx, tool.Exe, args...)
	if err != nil {
		return errors.Wrapf(ErrPurgeFailed, "%s %s: %v: %s", tool.Name, strings.Join(args, " "), err, tailOf(output))
	}
	logger.Debug("Tool cache purged", logger.Fields{"tool": tool.Name})
	return nil
}

// tailOf returns the trailing portion of command output for error messages.
func tailOf(output []byte) string {
	s := strings.TrimSpace(string(output))
	if s == "" {
		return "(no output)"
	}
	if len(s) > outputTailLen {
		s = "..." + s[len(s)-outputTailLen:]
	}
	return s
}
