package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pysweep/pkg/discover"
	"github.com/glorpus-work/pysweep/pkg/hook"
	"github.com/glorpus-work/pysweep/pkg/pipeline"
	mockpipeline "github.com/glorpus-work/pysweep/pkg/pipeline/mocks"
	"github.com/glorpus-work/pysweep/pkg/sweep"
)

type pipelineMocks struct {
	sweeper   *mockpipeline.MockSweeper
	discovery *mockpipeline.MockDiscoverer
	tools     *mockpipeline.MockPurger
	hooks     *mockpipeline.MockHookRunner
	backup    *mockpipeline.MockArchiver
}

func setupPipeline(ctrl *gomock.Controller, events *[]pipeline.Event) (*pipeline.Pipeline, pipelineMocks) {
	m := pipelineMocks{
		sweeper:   mockpipeline.NewMockSweeper(ctrl),
		discovery: mockpipeline.NewMockDiscoverer(ctrl),
		tools:     mockpipeline.NewMockPurger(ctrl),
		hooks:     mockpipeline.NewMockHookRunner(ctrl),
		backup:    mockpipeline.NewMockArchiver(ctrl),
	}
	progress := pipeline.Hooks{}
	if events != nil {
		progress.OnEvent = func(e pipeline.Event) { *events = append(*events, e) }
	}
	return pipeline.New(m.sweeper, m.discovery, m.tools, m.hooks, m.backup, progress), m
}

func noHooks(m pipelineMocks) {
	m.hooks.EXPECT().HasHook(gomock.Any()).Return(false).AnyTimes()
}

func TestRun_FullClean(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var events []pipeline.Event
	p, m := setupPipeline(ctrl, &events)

	root := t.TempDir()
	result := &sweep.Result{
		DirsRemoved:  2,
		FilesRemoved: 1,
		BytesFreed:   4096,
		Entries:      []string{"a/__pycache__", "b/__pycache__", "stray.pyc"},
	}
	condaTool := &discover.Tool{Name: "conda", Exe: "/opt/miniconda3/bin/conda", Prefix: "/opt/miniconda3", Origin: discover.OriginPrefix}
	pipTool := &discover.Tool{Name: "pip", Exe: "/usr/bin/pip", Origin: discover.OriginPath}

	m.hooks.EXPECT().HasHook(hook.PreClean).Return(true)
	m.hooks.EXPECT().HasHook(hook.PostClean).Return(true)

	gomock.InOrder(
		m.hooks.EXPECT().Execute(hook.PreClean, gomock.Any()).DoAndReturn(
			func(_ hook.HookType, hookCtx hook.HookContext) error {
				assert.Equal(t, root, hookCtx.WorkspaceRoot)
				assert.False(t, hookCtx.DryRun)
				return nil
			}),
		m.sweeper.EXPECT().Sweep(gomock.Any(), sweep.Options{Root: root, DryRun: true}).Return(result, nil),
		m.backup.EXPECT().Create(gomock.Any(), root, result.Entries, "/backups").Return("/backups/pysweep-backup-20260823T120000Z.tar.gz", nil),
		m.sweeper.EXPECT().Sweep(gomock.Any(), sweep.Options{Root: root}).Return(result, nil),
		m.discovery.EXPECT().Conda("").Return(condaTool),
		m.tools.EXPECT().PurgeConda(gomock.Any(), condaTool).Return(nil),
		m.discovery.EXPECT().Pip("").Return(pipTool),
		m.tools.EXPECT().PurgePip(gomock.Any(), pipTool).Return(nil),
		m.hooks.EXPECT().Execute(hook.PostClean, gomock.Any()).DoAndReturn(
			func(_ hook.HookType, hookCtx hook.HookContext) error {
				assert.Equal(t, 2, hookCtx.Vars["dirsRemoved"])
				assert.Equal(t, 1, hookCtx.Vars["filesRemoved"])
				assert.Equal(t, int64(4096), hookCtx.Vars["bytesFreed"])
				return nil
			}),
	)

	summary, err := p.Run(context.Background(), pipeline.Options{Root: root, Backup: true, BackupDir: "/backups"})
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, result, summary.Sweep)
	assert.Equal(t, "/backups/pysweep-backup-20260823T120000Z.tar.gz", summary.ArchivePath)
	assert.False(t, summary.Failed())

	for _, step := range []pipeline.Step{
		pipeline.StepPreClean, pipeline.StepBackup, pipeline.StepSweep,
		pipeline.StepConda, pipeline.StepPip, pipeline.StepPostClean,
	} {
		res := summary.Find(step)
		require.NotNil(t, res, "step %s missing from summary", step)
		assert.Equal(t, pipeline.StatusSuccess, res.Status, "step %s", step)
	}

	require.NotEmpty(t, events)
	assert.Equal(t, pipeline.StepPreClean, events[0].Step)
	assert.Equal(t, pipeline.StepDone, events[len(events)-1].Step)
}

func TestRun_CondaMissingIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := setupPipeline(ctrl, nil)
	noHooks(m)

	root := t.TempDir()
	pipTool := &discover.Tool{Name: "pip", Exe: "/usr/bin/pip", Origin: discover.OriginPath}

	m.sweeper.EXPECT().Sweep(gomock.Any(), gomock.Any()).Return(&sweep.Result{}, nil)
	m.discovery.EXPECT().Conda("").Return(nil)
	m.discovery.EXPECT().Pip("").Return(pipTool)
	m.tools.EXPECT().PurgePip(gomock.Any(), pipTool).Return(nil)

	summary, err := p.Run(context.Background(), pipeline.Options{Root: root})
	require.NoError(t, err)

	condaStep := summary.Find(pipeline.StepConda)
	require.NotNil(t, condaStep)
	assert.Equal(t, pipeline.StatusSkipped, condaStep.Status)
	assert.Equal(t, "conda not found", condaStep.Detail)

	pipStep := summary.Find(pipeline.StepPip)
	require.NotNil(t, pipStep)
	assert.Equal(t, pipeline.StatusSuccess, pipStep.Status)
}

func TestRun_PurgeFailureDoesNotFailRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := setupPipeline(ctrl, nil)
	noHooks(m)

	root := t.TempDir()
	condaTool := &discover.Tool{Name: "conda", Exe: "/opt/miniconda3/bin/conda", Origin: discover.OriginPrefix}
	pipTool := &discover.Tool{Name: "pip", Exe: "/usr/bin/pip", Origin: discover.OriginPath}

	m.sweeper.EXPECT().Sweep(gomock.Any(), gomock.Any()).Return(&sweep.Result{DirsRemoved: 1}, nil)
	m.discovery.EXPECT().Conda("").Return(condaTool)
	m.tools.EXPECT().PurgeConda(gomock.Any(), condaTool).Return(errors.New("conda clean exploded"))
	m.discovery.EXPECT().Pip("").Return(pipTool)
	m.tools.EXPECT().PurgePip(gomock.Any(), pipTool).Return(nil)

	summary, err := p.Run(context.Background(), pipeline.Options{Root: root})
	require.NoError(t, err, "a failing purge must not fail the run")

	condaStep := summary.Find(pipeline.StepConda)
	require.NotNil(t, condaStep)
	assert.Equal(t, pipeline.StatusFailed, condaStep.Status)
	assert.Contains(t, condaStep.Detail, "conda clean exploded")

	assert.Equal(t, pipeline.StatusSuccess, summary.Find(pipeline.StepPip).Status)
	assert.True(t, summary.Failed())
}

func TestRun_DryRunNeverPurges(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := setupPipeline(ctrl, nil)
	noHooks(m)

	root := t.TempDir()
	condaTool := &discover.Tool{Name: "conda", Exe: "/opt/miniconda3/bin/conda", Origin: discover.OriginPrefix}
	pipTool := &discover.Tool{Name: "pip", Exe: "/usr/bin/pip", Origin: discover.OriginPath}

	m.sweeper.EXPECT().Sweep(gomock.Any(), sweep.Options{Root: root, DryRun: true}).Return(&sweep.Result{Entries: []string{"x.pyc"}}, nil)
	m.discovery.EXPECT().Conda("").Return(condaTool)
	m.discovery.EXPECT().Pip("").Return(pipTool)
	// No PurgeConda/PurgePip expectations: purging in a dry run is a bug.

	summary, err := p.Run(context.Background(), pipeline.Options{Root: root, DryRun: true, Backup: true})
	require.NoError(t, err)

	backupStep := summary.Find(pipeline.StepBackup)
	require.NotNil(t, backupStep)
	assert.Equal(t, pipeline.StatusSkipped, backupStep.Status)
	assert.Equal(t, "dry run", backupStep.Detail)

	condaStep := summary.Find(pipeline.StepConda)
	require.NotNil(t, condaStep)
	assert.Equal(t, pipeline.StatusSkipped, condaStep.Status)
	assert.Contains(t, condaStep.Detail, "would purge")

	pipStep := summary.Find(pipeline.StepPip)
	require.NotNil(t, pipStep)
	assert.Equal(t, pipeline.StatusSkipped, pipStep.Status)
}

func TestRun_PreCleanHookFailureStillSweeps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := setupPipeline(ctrl, nil)

	root := t.TempDir()
	m.hooks.EXPECT().HasHook(hook.PreClean).Return(true)
	m.hooks.EXPECT().HasHook(hook.PostClean).Return(false)
	m.hooks.EXPECT().Execute(hook.PreClean, gomock.Any()).Return(errors.New("workspace not ready"))
	m.sweeper.EXPECT().Sweep(gomock.Any(), sweep.Options{Root: root}).Return(&sweep.Result{DirsRemoved: 1}, nil)
	m.discovery.EXPECT().Conda("").Return(nil)
	m.discovery.EXPECT().Pip("").Return(nil)

	summary, err := p.Run(context.Background(), pipeline.Options{Root: root})
	require.NoError(t, err, "a failing hook must not fail the run")

	preStep := summary.Find(pipeline.StepPreClean)
	require.NotNil(t, preStep)
	assert.Equal(t, pipeline.StatusFailed, preStep.Status)
	assert.Contains(t, preStep.Detail, "workspace not ready")

	assert.Equal(t, pipeline.StatusSuccess, summary.Find(pipeline.StepSweep).Status)
	assert.True(t, summary.Failed())
}

func TestRun_BackupFailureStillSweeps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := setupPipeline(ctrl, nil)
	noHooks(m)

	root := t.TempDir()
	gomock.InOrder(
		m.sweeper.EXPECT().Sweep(gomock.Any(), sweep.Options{Root: root, DryRun: true}).Return(&sweep.Result{Entries: []string{"x.pyc"}}, nil),
		m.backup.EXPECT().Create(gomock.Any(), root, []string{"x.pyc"}, "/backups").Return("", errors.New("disk full")),
		m.sweeper.EXPECT().Sweep(gomock.Any(), sweep.Options{Root: root}).Return(&sweep.Result{FilesRemoved: 1}, nil),
	)
	m.discovery.EXPECT().Conda("").Return(nil)
	m.discovery.EXPECT().Pip("").Return(nil)

	summary, err := p.Run(context.Background(), pipeline.Options{Root: root, Backup: true, BackupDir: "/backups"})
	require.NoError(t, err, "a failing backup must not fail the run")

	backupStep := summary.Find(pipeline.StepBackup)
	require.NotNil(t, backupStep)
	assert.Equal(t, pipeline.StatusFailed, backupStep.Status)
	assert.Contains(t, backupStep.Detail, "disk full")
	assert.Empty(t, summary.ArchivePath)

	assert.Equal(t, pipeline.StatusSuccess, summary.Find(pipeline.StepSweep).Status)
	assert.True(t, summary.Failed())
}

func TestRun_BackupWithNothingToArchive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := setupPipeline(ctrl, nil)
	noHooks(m)

	root := t.TempDir()
	m.sweeper.EXPECT().Sweep(gomock.Any(), sweep.Options{Root: root, DryRun: true}).Return(&sweep.Result{}, nil)
	m.sweeper.EXPECT().Sweep(gomock.Any(), sweep.Options{Root: root}).Return(&sweep.Result{}, nil)
	m.discovery.EXPECT().Conda("").Return(nil)
	m.discovery.EXPECT().Pip("").Return(nil)

	summary, err := p.Run(context.Background(), pipeline.Options{Root: root, Backup: true, BackupDir: "/backups"})
	require.NoError(t, err)

	backupStep := summary.Find(pipeline.StepBackup)
	require.NotNil(t, backupStep)
	assert.Equal(t, pipeline.StatusSkipped, backupStep.Status)
	assert.Equal(t, "nothing to back up", backupStep.Detail)
	assert.Empty(t, summary.ArchivePath)
}

func TestRun_SkipTools(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := setupPipeline(ctrl, nil)
	noHooks(m)

	root := t.TempDir()
	m.sweeper.EXPECT().Sweep(gomock.Any(), gomock.Any()).Return(&sweep.Result{}, nil)
	// Discovery and purging must not happen with SkipTools set.

	summary, err := p.Run(context.Background(), pipeline.Options{Root: root, SkipTools: true})
	require.NoError(t, err)

	for _, step := range []pipeline.Step{pipeline.StepConda, pipeline.StepPip} {
		res := summary.Find(step)
		require.NotNil(t, res)
		assert.Equal(t, pipeline.StatusSkipped, res.Status)
		assert.Equal(t, "tool purges disabled", res.Detail)
	}
}

func TestRun_SweepErrorFailsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := setupPipeline(ctrl, nil)
	noHooks(m)

	m.sweeper.EXPECT().Sweep(gomock.Any(), gomock.Any()).Return(nil, sweep.ErrWorkspaceNotFound)

	summary, err := p.Run(context.Background(), pipeline.Options{Root: "/does/not/exist"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sweep.ErrWorkspaceNotFound)

	sweepStep := summary.Find(pipeline.StepSweep)
	require.NotNil(t, sweepStep)
	assert.Equal(t, pipeline.StatusFailed, sweepStep.Status)
	assert.Nil(t, summary.Find(pipeline.StepConda))
}

func TestRun_NoSweeperConfigured(t *testing.T) {
	p := &pipeline.Pipeline{}
	summary, err := p.Run(context.Background(), pipeline.Options{Root: "/tmp"})
	require.Error(t, err)
	assert.Nil(t, summary)
}

func TestRun_ConfigOverridesReachDiscovery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, m := setupPipeline(ctrl, nil)
	noHooks(m)

	root := t.TempDir()
	m.sweeper.EXPECT().Sweep(gomock.Any(), gomock.Any()).Return(&sweep.Result{}, nil)
	m.discovery.EXPECT().Conda("/custom/conda").Return(nil)
	m.discovery.EXPECT().Pip("/custom/pip").Return(nil)

	_, err := p.Run(context.Background(), pipeline.Options{
		Root:        root,
		CondaPrefix: "/custom/conda",
		PipCommand:  "/custom/pip",
	})
	require.NoError(t, err)
}
