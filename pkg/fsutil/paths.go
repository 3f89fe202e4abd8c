package fsutil

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the application used in paths
	AppName = "pysweep"
)

// GetCacheDir returns the platform-specific cache directory for the application
// On Linux: ~/.cache/pysweep/
// On macOS: ~/Library/Caches/pysweep/
// On Windows: %LOCALAPPDATA%\pysweep\cache\
func GetCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, AppName), nil
}

// GetBackupDir returns the directory for storing workspace backup archives
// Format: <cache_dir>/backups/
func GetBackupDir() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "backups"), nil
}
