package hook

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/pysweep/pkg/errors"
)

// hookFileExt is the file extension for hook scripts.
const hookFileExt = ".tengo"

// HooksDir returns the directory that holds hook scripts for a workspace.
func HooksDir(root string) string {
	return filepath.Join(root, ".pysweep", "hooks")
}

// LoadHooksFromWorkspace loads hooks from a workspace directory.
// Hook files live at <root>/.pysweep/hooks/<hook-type>.tengo.
func LoadHooksFromWorkspace(manager HookManager, root string) error {
	hooksDir := HooksDir(root)
	if _, err := os.Stat(hooksDir); err != nil {
		return nil // Workspace has no hooks
	}
	return loadHooksFromDir(manager, hooksDir)
}

// loadHooksFromDir loads all hook files from a directory.
func loadHooksFromDir(manager HookManager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(ErrHookLoad, "failed to read hooks directory %s: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != hookFileExt {
			continue // Skip unsupported file types
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), ext))

		// Validate hook type
		switch hookType {
		case PreClean, PostClean:
			// Valid hook type
		default:
			continue // Skip unknown hook types
		}

		// Read hook content
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return errors.Wrapf(ErrHookLoad, "failed to read hook file %s: %v", entry.Name(), err)
		}

		if err := manager.AddHook(Hook{
			Type:    hookType,
			Content: string(content),
		}); err != nil {
			return errors.Wrapf(err, "error adding hook %s", hookType)
		}
	}

	return nil
}
