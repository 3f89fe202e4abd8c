//go:generate mockgen -destination=./mocks/pipeline.go . Sweeper,Discoverer,Purger,HookRunner,Archiver

package pipeline

import (
	"context"

	"github.com/glorpus-work/pysweep/pkg/discover"
	"github.com/glorpus-work/pysweep/pkg/hook"
	"github.com/glorpus-work/pysweep/pkg/sweep"
)

// Sweeper is the subset of the sweep manager used by the pipeline.
type Sweeper interface {
	Sweep(ctx context.Context, options sweep.Options) (*sweep.Result, error)
}

// Discoverer locates conda and pip installations on this system.
type Discoverer interface {
	Conda(overridePrefix string) *discover.Tool
	Pip(override string) *discover.Tool
}

// Purger runs the cache purge commands of discovered tools.
type Purger interface {
	PurgeConda(ctx context.Context, tool *discover.Tool) error
	PurgePip(ctx context.Context, tool *discover.Tool) error
}

// HookRunner is the subset of the hook manager used by the pipeline.
type HookRunner interface {
	Execute(hookType hook.HookType, ctx hook.HookContext) error
	HasHook(hookType hook.HookType) bool
}

// Archiver creates backup archives before anything is removed.
type Archiver interface {
	Create(ctx context.Context, root string, relPaths []string, destDir string) (string, error)
}

// Pipeline ties sweep, discovery, purging, backup and hooks together for
// clean runs.
type Pipeline struct {
	Sweeper    Sweeper
	Discovery  Discoverer
	Tools      Purger
	CleanHooks HookRunner
	Backup     Archiver
	Hooks      Hooks // Hooks for progress and event notifications
}

// Step identifies a pipeline step.
type Step string

// Pipeline steps in execution order. StepDiscover and StepDone appear in
// progress events only, never in the summary.
const (
	StepPreClean  Step = "pre-clean"
	StepBackup    Step = "backup"
	StepSweep     Step = "sweep"
	StepDiscover  Step = "discover"
	StepConda     Step = "conda"
	StepPip       Step = "pip"
	StepPostClean Step = "post-clean"
	StepDone      Step = "done"
)

// Status classifies the outcome of a pipeline step.
type Status string

// Step outcomes.
const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// StepResult records the outcome of a single pipeline step.
type StepResult struct {
	Step   Step
	Status Status
	Detail string
	Err    error
}

// Summary aggregates the outcomes of a clean run.
type Summary struct {
	Steps       []StepResult
	Sweep       *sweep.Result
	ArchivePath string
}

func (s *Summary) record(step Step, status Status, detail string, err error) {
	if err != nil && detail == "" {
		detail = err.Error()
	}
	s.Steps = append(s.Steps, StepResult{Step: step, Status: status, Detail: detail, Err: err})
}

// Find returns the recorded result for the given step, or nil if the step did
// not run.
func (s *Summary) Find(step Step) *StepResult {
	for i := range s.Steps {
		if s.Steps[i].Step == step {
			return &s.Steps[i]
		}
	}
	return nil
}

// Failed reports whether any recorded step failed.
func (s *Summary) Failed() bool {
	for _, step := range s.Steps {
		if step.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Event represents a simple progress notification.
type Event struct {
	Step Step
	Msg  string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Options control a clean run.
type Options struct {
	Root        string
	DryRun      bool
	Backup      bool
	BackupDir   string
	SkipTools   bool
	CondaPrefix string // config override for conda discovery
	PipCommand  string // config override for pip discovery
	Extra       []sweep.Target
	Exclude     []string
}
