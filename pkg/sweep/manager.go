package sweep

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/glorpus-work/pysweep/internal/logger"
	"github.com/glorpus-work/pysweep/pkg/errors"
)

// DefaultManager implements the Manager interface for sweep operations.
type DefaultManager struct{}

// NewManager creates a new sweep manager.
func NewManager() *DefaultManager {
	return &DefaultManager{}
}

// Sweep removes cache entries below the workspace root according to the
// options. Entries that cannot be removed are recorded as failures and the
// sweep continues; only an unusable workspace or a cancelled context abort it.
func (sm *DefaultManager) Sweep(ctx context.Context, options Options) (*Result, error) {
	root, err := validateRoot(options.Root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	excluded := make(map[string]bool, len(options.Exclude))
	for _, name := range options.Exclude {
		excluded[name] = true
	}

	rootPytestHandled := false
	rootPytestPath := filepath.Join(root, PytestCacheDirName)

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			// unreadable entries are recorded, the sweep moves on
			result.Failures = append(result.Failures, Failure{Path: relPath(root, path), Err: err})
			logger.Warnf("Cannot read %s: %v", relPath(root, path), err)
			return nil
		}
		if path == root {
			return nil
		}

		name := entry.Name()
		if entry.IsDir() {
			if matchDirTarget(name, options.Extra) {
				if path == rootPytestPath {
					rootPytestHandled = true
				}
				sm.removeDir(path, root, options.DryRun, result)
				return fs.SkipDir
			}
			if excluded[name] {
				return fs.SkipDir
			}
			if path == rootPytestPath {
				// handled after the walk so its contents are not counted twice
				return fs.SkipDir
			}
			return nil
		}

		if matchFileTarget(name, options.Extra) {
			sm.removeFile(path, root, entry, options.DryRun, result)
		}
		return nil
	})
	if walkErr != nil {
		return result, errors.Wrapf(walkErr, "sweep of %s aborted", root)
	}

	if !rootPytestHandled {
		sm.removeRootPytestCache(root, options.DryRun, result)
	}

	return result, nil
}

// Usage reports how much reclaimable data the workspace currently holds
// without removing anything.
func (sm *DefaultManager) Usage(options Options) (*Usage, error) {
	root, err := validateRoot(options.Root)
	if err != nil {
		return nil, err
	}

	usage := &Usage{Root: root}
	excluded := make(map[string]bool, len(options.Exclude))
	for _, name := range options.Exclude {
		excluded[name] = true
	}
	rootPytestPath := filepath.Join(root, PytestCacheDirName)

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// usage is advisory, unreadable entries are skipped
			return nil
		}
		if path == root {
			return nil
		}

		name := entry.Name()
		if entry.IsDir() {
			if name == BytecodeDirName {
				size, _, _ := dirSizeAndFiles(path)
				usage.BytecodeDirs++
				usage.BytecodeBytes += size
				return fs.SkipDir
			}
			if matchExtraDir(name, options.Extra) {
				size, _, _ := dirSizeAndFiles(path)
				usage.ExtraEntries++
				usage.ExtraBytes += size
				return fs.SkipDir
			}
			if excluded[name] {
				return fs.SkipDir
			}
			if path == rootPytestPath {
				size, files, _ := dirSizeAndFiles(path)
				usage.PytestCachePresent = true
				usage.PytestCacheFiles = files
				usage.PytestCacheBytes = size
				return fs.SkipDir
			}
			return nil
		}

		if hasBytecodeExt(name) {
			usage.StrayFiles++
			usage.StrayBytes += entrySize(entry)
			return nil
		}
		if matchExtraFile(name, options.Extra) {
			usage.ExtraEntries++
			usage.ExtraBytes += entrySize(entry)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, "failed to scan %s", root)
	}

	usage.TotalBytes = usage.BytecodeBytes + usage.StrayBytes + usage.PytestCacheBytes + usage.ExtraBytes
	return usage, nil
}

// removeDir removes a matched directory and accounts for its contents.
func (sm *DefaultManager) removeDir(path, root string, dryRun bool, result *Result) {
	size, files, err := dirSizeAndFiles(path)
	if err != nil {
		// size is best effort, removal still proceeds
		logger.Debugf("Failed to size %s: %v", path, err)
	}

	rel := relPath(root, path)
	if !dryRun {
		if err := os.RemoveAll(path); err != nil {
			result.Failures = append(result.Failures, Failure{Path: rel, Err: err})
			logger.Warnf("Failed to remove %s: %v", rel, err)
			return
		}
	}

	result.DirsRemoved++
	result.BytesFreed += size
	result.Entries = append(result.Entries, rel)
	logger.Debug("Removed cache directory", logger.Fields{
		"path":  rel,
		"files": files,
		"bytes": size,
	})
}

// removeFile removes a matched loose file.
func (sm *DefaultManager) removeFile(path, root string, entry fs.DirEntry, dryRun bool, result *Result) {
	size := entrySize(entry)

	rel := relPath(root, path)
	if !dryRun {
		if err := os.Remove(path); err != nil {
			result.Failures = append(result.Failures, Failure{Path: rel, Err: err})
			logger.Warnf("Failed to remove %s: %v", rel, err)
			return
		}
	}

	result.FilesRemoved++
	result.BytesFreed += size
	result.Entries = append(result.Entries, rel)
	logger.Debug("Removed cache file", logger.Fields{
		"path":  rel,
		"bytes": size,
	})
}

// removeRootPytestCache removes the pytest cache directly under the root.
// A missing cache is not an error.
func (sm *DefaultManager) removeRootPytestCache(root string, dryRun bool, result *Result) {
	path := filepath.Join(root, PytestCacheDirName)
	info, err := os.Lstat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Failures = append(result.Failures, Failure{Path: PytestCacheDirName, Err: err})
			logger.Warnf("Cannot read %s: %v", PytestCacheDirName, err)
		}
		return
	}

	if !info.IsDir() {
		// a symlink or stray file with the cache name, remove just the entry
		if !dryRun {
			if err := os.Remove(path); err != nil {
				result.Failures = append(result.Failures, Failure{Path: PytestCacheDirName, Err: err})
				logger.Warnf("Failed to remove %s: %v", PytestCacheDirName, err)
				return
			}
		}
		result.FilesRemoved++
		result.BytesFreed += info.Size()
		result.Entries = append(result.Entries, PytestCacheDirName)
		return
	}

	sm.removeDir(path, root, dryRun, result)
}

// validateRoot resolves the workspace root and verifies it is a directory.
func validateRoot(root string) (string, error) {
	if root == "" {
		return "", ErrWorkspaceEmpty
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve workspace path %s", root)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(ErrWorkspaceNotFound, root)
		}
		return "", errors.Wrapf(err, "failed to stat workspace %s", root)
	}
	if !info.IsDir() {
		return "", errors.Wrap(ErrWorkspaceNotDir, root)
	}

	return absRoot, nil
}

// matchDirTarget reports whether a directory base name is a sweep target.
func matchDirTarget(name string, extra []Target) bool {
	if name == BytecodeDirName {
		return true
	}
	return matchExtraDir(name, extra)
}

// matchFileTarget reports whether a file base name is a sweep target.
func matchFileTarget(name string, extra []Target) bool {
	if hasBytecodeExt(name) {
		return true
	}
	return matchExtraFile(name, extra)
}

func matchExtraDir(name string, extra []Target) bool {
	for _, target := range extra {
		if target.Kind == KindDir && target.Name == name {
			return true
		}
	}
	return false
}

func matchExtraFile(name string, extra []Target) bool {
	for _, target := range extra {
		if target.Kind != KindFile {
			continue
		}
		// patterns are validated at config load, a bad one simply never matches
		if ok, err := filepath.Match(target.Name, name); err == nil && ok {
			return true
		}
	}
	return false
}

func hasBytecodeExt(name string) bool {
	ext := filepath.Ext(name)
	for _, candidate := range BytecodeFileExts {
		if ext == candidate {
			return true
		}
	}
	return false
}

func entrySize(entry fs.DirEntry) int64 {
	info, err := entry.Info()
	if err != nil {
		return 0
	}
	return info.Size()
}

// dirSizeAndFiles calculates directory size and file count without following
// symlinks.
func dirSizeAndFiles(dir string) (size int64, count int, err error) {
	err = filepath.WalkDir(dir, func(_ string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			size += entrySize(entry)
			count++
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return size, count, err
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
