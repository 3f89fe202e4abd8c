// Package backup archives workspace entries scheduled for removal so a clean
// run can be undone by unpacking the archive over the workspace root.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mholt/archives"

	"github.com/glorpus-work/pysweep/pkg/errors"
	"github.com/glorpus-work/pysweep/pkg/fsutil"
)

const (
	archiveNamePrefix = "pysweep-backup-"
	archiveNameSuffix = ".tar.gz"
	archiveTimeFormat = "20060102T150405Z"
)

// Manager creates backup archives.
type Manager struct{}

// NewManager creates a new backup manager.
func NewManager() *Manager {
	return &Manager{}
}

// Create archives the given workspace-relative paths into destDir and returns
// the path of the written archive. Directory entries are archived recursively.
// Entry names inside the archive are relative to the workspace root, so
// unpacking the archive over the root restores the removed files.
func (m *Manager) Create(ctx context.Context, root string, relPaths []string, destDir string) (string, error) {
	if len(relPaths) == 0 {
		return "", ErrNoEntries
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return "", errors.Wrapf(err, "failed to create backup directory %s", destDir)
	}

	// Normalize archive-internal names to forward slashes
	sources := make(map[string]string, len(relPaths))
	for _, rel := range relPaths {
		sources[filepath.Join(root, rel)] = filepath.ToSlash(rel)
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, sources)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read files from disk")
	}

	archivePath := filepath.Join(destDir, archiveName(time.Now()))
	file, err := os.Create(archivePath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create archive file %s", archivePath)
	}
	// Ensure data is flushed and handle is released promptly on Windows
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}

	if err := format.Archive(ctx, file, archiveFiles); err != nil {
		return "", errors.Wrapf(err, "failed to write archive %s", archivePath)
	}
	return archivePath, nil
}

func archiveName(now time.Time) string {
	return fmt.Sprintf("%s%s%s", archiveNamePrefix, now.UTC().Format(archiveTimeFormat), archiveNameSuffix)
}
