package cli

import (
	"fmt"

	"github.com/glorpus-work/pysweep/internal/logger"
	"github.com/glorpus-work/pysweep/pkg/backup"
	"github.com/glorpus-work/pysweep/pkg/config"
	"github.com/glorpus-work/pysweep/pkg/discover"
	"github.com/glorpus-work/pysweep/pkg/hook"
	"github.com/glorpus-work/pysweep/pkg/pipeline"
	"github.com/glorpus-work/pysweep/pkg/sweep"
	"github.com/glorpus-work/pysweep/pkg/toolcache"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	OutputFormat *string
)

// loadConfig loads the configuration, applies CLI flag overrides and
// initializes the logger accordingly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.InitLogger(cfg.Settings.LogLevel, logger.OutputFormat(cfg.Settings.OutputFormat))

	return cfg, nil
}

// sweepTargets converts the configured extra targets into sweep targets.
func sweepTargets(cfg *config.Config) []sweep.Target {
	if len(cfg.ExtraTargets) == 0 {
		return nil
	}
	targets := make([]sweep.Target, 0, len(cfg.ExtraTargets))
	for _, t := range cfg.ExtraTargets {
		targets = append(targets, sweep.Target{Name: t.Name, Kind: sweep.Kind(t.Kind)})
	}
	return targets
}

// newPipeline wires a clean pipeline for the given workspace. Hook scripts
// are loaded from the workspace; a broken script is reported and skipped so
// a clean never fails on hook loading alone.
func newPipeline(cfg *config.Config, root string) *pipeline.Pipeline {
	hookManager := hook.NewHookManager()
	if err := hook.LoadHooksFromWorkspace(hookManager, root); err != nil {
		logger.Warn("Skipping workspace hooks", logger.Fields{"error": err})
	}

	return pipeline.New(
		sweep.NewManager(),
		discover.System{},
		toolcache.NewDefaultPurger(),
		hookManager,
		backup.NewManager(),
		pipeline.Hooks{},
	)
}
