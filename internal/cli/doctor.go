package cli

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-version"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/pysweep/pkg/discover"
	"github.com/glorpus-work/pysweep/pkg/platform"
	"github.com/glorpus-work/pysweep/pkg/toolcache"
)

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the Python tooling on this system",
		Long: `Report where conda, pip and python were found and which versions they are.

A missing tool or an old version is advisory only: doctor always exits 0.`,
		RunE: runDoctor,
	}

	return cmd
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	runner := toolcache.ExecRunner{}

	fmt.Printf("platform: %s\n", platform.Current())
	reportTool(ctx, runner, "conda", discover.Conda(cfg.Settings.CondaPrefix), toolcache.CondaMinimum)
	reportTool(ctx, runner, "pip", discover.Pip(cfg.Settings.PipCommand), toolcache.PipMinimum)
	reportTool(ctx, runner, "python", discover.Python(), nil)

	return nil
}

// reportTool prints one line per tool plus an advisory when the installed
// version predates the oldest one the purge commands support.
func reportTool(ctx context.Context, runner toolcache.Runner, name string, tool *discover.Tool, minimum *version.Version) {
	if tool == nil {
		fmt.Printf("%s: not found\n", name)
		return
	}

	v, raw, err := toolcache.Version(ctx, runner, tool.Exe)
	if err != nil {
		if raw != "" {
			fmt.Printf("%s: %s (via %s), version unknown: %q\n", name, tool.Exe, tool.Origin, raw)
		} else {
			fmt.Printf("%s: %s (via %s), version unknown\n", name, tool.Exe, tool.Origin)
		}
		return
	}

	fmt.Printf("%s: %s (via %s), version %s\n", name, tool.Exe, tool.Origin, v)
	if minimum != nil && v.LessThan(minimum) {
		fmt.Printf("  warning: %s %s predates %s, cache purging may not work\n", name, v, minimum)
	}
}
