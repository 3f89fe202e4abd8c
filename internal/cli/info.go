package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/pysweep/pkg/sweep"
)

// NewInfoCmd creates the info command.
func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [workspace]",
		Short: "Show reclaimable cache usage for a workspace",
		Long:  "Display how much disk space a clean would reclaim, without removing anything",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInfo,
	}

	return cmd
}

func runInfo(_ *cobra.Command, args []string) error {
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

	usage, err := sweep.NewManager().Usage(sweep.Options{
		Root:    root,
		Extra:   sweepTargets(cfg),
		Exclude: cfg.ExcludeDirs,
	})
	if err != nil {
		return fmt.Errorf("failed to inspect workspace: %w", err)
	}

	if cfg.Settings.OutputFormat == "json" {
		return printUsageReport(usage)
	}

	fmt.Printf("Workspace: %s\n", usage.Root)
	fmt.Printf("Bytecode caches: %d directories (%s)\n", usage.BytecodeDirs, humanize.Bytes(uint64(usage.BytecodeBytes)))
	fmt.Printf("Stray compiled modules: %d files (%s)\n", usage.StrayFiles, humanize.Bytes(uint64(usage.StrayBytes)))
	if usage.PytestCachePresent {
		fmt.Printf("pytest cache: %d files (%s)\n", usage.PytestCacheFiles, humanize.Bytes(uint64(usage.PytestCacheBytes)))
	} else {
		fmt.Println("pytest cache: not present")
	}
	if len(cfg.ExtraTargets) > 0 {
		fmt.Printf("Extra targets: %d entries (%s)\n", usage.ExtraEntries, humanize.Bytes(uint64(usage.ExtraBytes)))
	}
	fmt.Printf("Total reclaimable: %s\n", humanize.Bytes(uint64(usage.TotalBytes)))

	return nil
}

type usageReport struct {
	Workspace          string `json:"workspace"`
	BytecodeDirs       int    `json:"bytecode_dirs"`
	BytecodeBytes      int64  `json:"bytecode_bytes"`
	StrayFiles         int    `json:"stray_files"`
	StrayBytes         int64  `json:"stray_bytes"`
	PytestCachePresent bool   `json:"pytest_cache_present"`
	PytestCacheFiles   int    `json:"pytest_cache_files"`
	PytestCacheBytes   int64  `json:"pytest_cache_bytes"`
	ExtraEntries       int    `json:"extra_entries,omitempty"`
	ExtraBytes         int64  `json:"extra_bytes,omitempty"`
	TotalBytes         int64  `json:"total_bytes"`
}

func printUsageReport(usage *sweep.Usage) error {
	report := usageReport{
		Workspace:          usage.Root,
		BytecodeDirs:       usage.BytecodeDirs,
		BytecodeBytes:      usage.BytecodeBytes,
		StrayFiles:         usage.StrayFiles,
		StrayBytes:         usage.StrayBytes,
		PytestCachePresent: usage.PytestCachePresent,
		PytestCacheFiles:   usage.PytestCacheFiles,
		PytestCacheBytes:   usage.PytestCacheBytes,
		ExtraEntries:       usage.ExtraEntries,
		ExtraBytes:         usage.ExtraBytes,
		TotalBytes:         usage.TotalBytes,
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode usage: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
