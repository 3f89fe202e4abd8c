package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/pysweep/internal/logger"
	"github.com/glorpus-work/pysweep/pkg/pipeline"
)

type cleanFlags struct {
	dryRun    bool
	backup    bool
	skipTools bool
}

// NewCleanCmd creates the clean command.
func NewCleanCmd() *cobra.Command {
	var flags cleanFlags

	cmd := &cobra.Command{
		Use:   "clean [workspace]",
		Short: "Remove Python caches from a workspace",
		Long: `Remove Python caches from a workspace and purge tool caches.

The workspace sweep deletes __pycache__ directories, stray compiled modules
(*.pyc, *.pyo, *.pyd) and the workspace's top-level .pytest_cache. When conda
or pip are installed their caches are purged as well; a missing tool is
skipped, a failing purge is reported without failing the clean.
Use --dry-run to see what would be removed without touching anything.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be removed without actually removing anything")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "Archive the matched entries before removing them")
	cmd.Flags().BoolVar(&flags.skipTools, "skip-tools", false, "Sweep the workspace only, leave conda and pip caches alone")

	return cmd
}

// RunDefaultClean runs a clean of the current directory with default flags.
// Invoked when pysweep is called without a subcommand.
func RunDefaultClean(ctx context.Context) error {
	return runClean(ctx, nil, cleanFlags{})
}

func runClean(ctx context.Context, args []string, flags cleanFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace path: %w", err)
	}

	backupDir, err := cfg.GetBackupDir()
	if err != nil {
		return fmt.Errorf("failed to resolve backup directory: %w", err)
	}

	jsonOutput := cfg.Settings.OutputFormat == "json"

	p := newPipeline(cfg, root)
	if !jsonOutput {
		p.Hooks = pipeline.Hooks{OnEvent: func(e pipeline.Event) {
			// Simple, human-friendly output
			if e.Msg != "" {
				fmt.Printf("%s: %s\n", e.Step, e.Msg)
			}
		}}
	}

	summary, err := p.Run(ctx, pipeline.Options{
		Root:        root,
		DryRun:      flags.dryRun,
		Backup:      flags.backup,
		BackupDir:   backupDir,
		SkipTools:   flags.skipTools,
		CondaPrefix: cfg.Settings.CondaPrefix,
		PipCommand:  cfg.Settings.PipCommand,
		Extra:       sweepTargets(cfg),
		Exclude:     cfg.ExcludeDirs,
	})
	if err != nil {
		return fmt.Errorf("failed to clean workspace: %w", err)
	}

	if jsonOutput {
		return printCleanReport(root, flags.dryRun, summary)
	}

	printStepTable(summary)

	result := summary.Sweep
	verb := "Removed"
	if flags.dryRun {
		verb = "Would remove"
	}
	fmt.Printf("\n%s %d directories and %d files (%s)\n",
		verb, result.DirsRemoved, result.FilesRemoved, humanize.Bytes(uint64(result.BytesFreed)))

	for _, failure := range result.Failures {
		fmt.Printf("  failed: %s: %v\n", failure.Path, failure.Err)
	}
	if summary.ArchivePath != "" {
		fmt.Printf("Backup written to %s\n", summary.ArchivePath)
	}

	logger.Success("Workspace clean completed", logger.Fields{
		"workspace": root,
		"removed":   result.TotalRemoved(),
		"freed":     humanize.Bytes(uint64(result.BytesFreed)),
	})

	return nil
}

func printStepTable(summary *pipeline.Summary) {
	tabWriter := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "STEP\tSTATUS\tDETAIL")
	_, _ = fmt.Fprintln(tabWriter, "----\t------\t------")

	for _, step := range summary.Steps {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t%s\n", step.Step, step.Status, step.Detail)
	}

	_ = tabWriter.Flush()
}

// cleanReport is the machine-readable shape of a clean run, emitted with
// --output json.
type cleanReport struct {
	Workspace    string          `json:"workspace"`
	DryRun       bool            `json:"dry_run,omitempty"`
	Steps        []stepReport    `json:"steps"`
	DirsRemoved  int             `json:"dirs_removed"`
	FilesRemoved int             `json:"files_removed"`
	BytesFreed   int64           `json:"bytes_freed"`
	Entries      []string        `json:"entries,omitempty"`
	Failures     []failureReport `json:"failures,omitempty"`
	Archive      string          `json:"archive,omitempty"`
}

type stepReport struct {
	Step   string `json:"step"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type failureReport struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func printCleanReport(root string, dryRun bool, summary *pipeline.Summary) error {
	report := cleanReport{
		Workspace: root,
		DryRun:    dryRun,
		Archive:   summary.ArchivePath,
	}
	for _, step := range summary.Steps {
		report.Steps = append(report.Steps, stepReport{
			Step:   string(step.Step),
			Status: string(step.Status),
			Detail: step.Detail,
		})
	}
	if result := summary.Sweep; result != nil {
		report.DirsRemoved = result.DirsRemoved
		report.FilesRemoved = result.FilesRemoved
		report.BytesFreed = result.BytesFreed
		report.Entries = result.Entries
		for _, failure := range result.Failures {
			report.Failures = append(report.Failures, failureReport{Path: failure.Path, Error: failure.Err.Error()})
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
