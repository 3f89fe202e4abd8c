package pipeline

import (
	"context"
	"fmt"

	"github.com/glorpus-work/pysweep/pkg/discover"
	"github.com/glorpus-work/pysweep/pkg/hook"
	"github.com/glorpus-work/pysweep/pkg/sweep"
)

// New constructs a default Pipeline from existing managers. Helper for wiring.
// Hooks can be zero if no event handling is needed.
func New(sweeper Sweeper, discovery Discoverer, tools Purger, cleanHooks HookRunner, backup Archiver, hooks Hooks) *Pipeline {
	return &Pipeline{
		Sweeper:    sweeper,
		Discovery:  discovery,
		Tools:      tools,
		CleanHooks: cleanHooks,
		Backup:     backup,
		Hooks:      hooks,
	}
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Run executes a clean: pre-clean hook, optional backup, workspace sweep,
// tool discovery and cache purges, post-clean hook. The returned error is nil
// whenever the sweep completed; hook, backup and purge failures are recorded
// in the summary instead.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	if p.Sweeper == nil {
		return nil, fmt.Errorf("sweep manager is not configured")
	}

	summary := &Summary{}
	hookCtx := hook.HookContext{WorkspaceRoot: opts.Root, DryRun: opts.DryRun}

	if p.CleanHooks != nil && p.CleanHooks.HasHook(hook.PreClean) {
		emit(p.Hooks, Event{Step: StepPreClean, Msg: "running pre-clean hook"})
		if err := p.CleanHooks.Execute(hook.PreClean, hookCtx); err != nil {
			summary.record(StepPreClean, StatusFailed, "", err)
		} else {
			summary.record(StepPreClean, StatusSuccess, "", nil)
		}
	}

	p.backup(ctx, opts, summary)

	emit(p.Hooks, Event{Step: StepSweep, Msg: "sweeping " + opts.Root})
	result, err := p.Sweeper.Sweep(ctx, sweep.Options{
		Root:    opts.Root,
		DryRun:  opts.DryRun,
		Extra:   opts.Extra,
		Exclude: opts.Exclude,
	})
	if err != nil {
		summary.record(StepSweep, StatusFailed, "", err)
		return summary, err
	}
	summary.Sweep = result
	if len(result.Failures) > 0 {
		summary.record(StepSweep, StatusSuccess, fmt.Sprintf("%d entries could not be removed", len(result.Failures)), nil)
	} else {
		summary.record(StepSweep, StatusSuccess, "", nil)
	}

	p.purgeTools(ctx, opts, summary)

	if p.CleanHooks != nil && p.CleanHooks.HasHook(hook.PostClean) {
		hookCtx.Vars = map[string]interface{}{
			"dirsRemoved":  result.DirsRemoved,
			"filesRemoved": result.FilesRemoved,
			"bytesFreed":   result.BytesFreed,
		}
		emit(p.Hooks, Event{Step: StepPostClean, Msg: "running post-clean hook"})
		if err := p.CleanHooks.Execute(hook.PostClean, hookCtx); err != nil {
			summary.record(StepPostClean, StatusFailed, "", err)
		} else {
			summary.record(StepPostClean, StatusSuccess, "", nil)
		}
	}

	emit(p.Hooks, Event{Step: StepDone})
	return summary, nil
}

// backup archives everything a sweep would remove. It runs the sweep in
// dry-run mode to collect the entries first. A failing backup is recorded and
// the clean goes on without it.
func (p *Pipeline) backup(ctx context.Context, opts Options, summary *Summary) {
	if !opts.Backup {
		return
	}
	if opts.DryRun {
		summary.record(StepBackup, StatusSkipped, "dry run", nil)
		return
	}
	if p.Backup == nil {
		summary.record(StepBackup, StatusFailed, "", fmt.Errorf("backup manager is not configured"))
		return
	}

	emit(p.Hooks, Event{Step: StepBackup, Msg: "collecting entries"})
	preview, err := p.Sweeper.Sweep(ctx, sweep.Options{
		Root:    opts.Root,
		DryRun:  true,
		Extra:   opts.Extra,
		Exclude: opts.Exclude,
	})
	if err != nil {
		summary.record(StepBackup, StatusFailed, "", err)
		return
	}
	if len(preview.Entries) == 0 {
		summary.record(StepBackup, StatusSkipped, "nothing to back up", nil)
		return
	}

	archivePath, err := p.Backup.Create(ctx, opts.Root, preview.Entries, opts.BackupDir)
	if err != nil {
		summary.record(StepBackup, StatusFailed, "", err)
		return
	}
	summary.ArchivePath = archivePath
	summary.record(StepBackup, StatusSuccess, archivePath, nil)
	emit(p.Hooks, Event{Step: StepBackup, Msg: "wrote " + archivePath})
}

// purgeTools discovers conda and pip and purges their caches. Every outcome
// lands in the summary: a missing tool or a failing purge never fails the run.
func (p *Pipeline) purgeTools(ctx context.Context, opts Options, summary *Summary) {
	if opts.SkipTools {
		summary.record(StepConda, StatusSkipped, "tool purges disabled", nil)
		summary.record(StepPip, StatusSkipped, "tool purges disabled", nil)
		return
	}
	if p.Discovery == nil || p.Tools == nil {
		summary.record(StepConda, StatusSkipped, "tool purging is not configured", nil)
		summary.record(StepPip, StatusSkipped, "tool purging is not configured", nil)
		return
	}

	emit(p.Hooks, Event{Step: StepDiscover, Msg: "locating conda and pip"})
	p.purgeTool(ctx, StepConda, p.Discovery.Conda(opts.CondaPrefix), opts.DryRun, summary, p.Tools.PurgeConda)
	p.purgeTool(ctx, StepPip, p.Discovery.Pip(opts.PipCommand), opts.DryRun, summary, p.Tools.PurgePip)
}

func (p *Pipeline) purgeTool(ctx context.Context, step Step, tool *discover.Tool, dryRun bool, summary *Summary, purge func(context.Context, *discover.Tool) error) {
	if tool == nil {
		summary.record(step, StatusSkipped, string(step)+" not found", nil)
		return
	}
	if dryRun {
		summary.record(step, StatusSkipped, "would purge "+tool.Exe, nil)
		return
	}
	emit(p.Hooks, Event{Step: step, Msg: "purging " + tool.Exe})
	if err := purge(ctx, tool); err != nil {
		summary.record(step, StatusFailed, "", err)
		return
	}
	summary.record(step, StatusSuccess, tool.Exe, nil)
}
