package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pysweep/internal/logger"
	"github.com/glorpus-work/pysweep/pkg/backup"
)

// NewRestoreCmd creates the restore command.
func NewRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore ARCHIVE [workspace]",
		Short: "Restore a backup archive into a workspace",
		Long: `Extract a backup archive written by clean --backup back into a workspace.

The archived entries are recreated at their original workspace-relative
locations; existing files are overwritten.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args)
		},
	}

	return cmd
}

func runRestore(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	archivePath := args[0]
	root := "."
	if len(args) > 1 {
		root = args[1]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace path: %w", err)
	}

	if err := backup.NewManager().Restore(cmd.Context(), archivePath, root); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	logger.Success("Backup restored", logger.Fields{"archive": archivePath, "workspace": root})
	return nil
}
