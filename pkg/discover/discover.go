// Package discover locates Python tooling installations without invoking
// them. Discovery is a pure filesystem and PATH probe so a missing tool is
// never an error, just a nil result.
package discover

import (
	"os"
	"os/exec"
	"strings"
)

// Origin identifies which step of the discovery chain found a tool.
type Origin string

// Discovery origins, ordered by precedence.
const (
	// OriginConfig means an explicit override from the configuration.
	OriginConfig Origin = "config"
	// OriginEnv means the tool was taken from an environment variable.
	OriginEnv Origin = "env"
	// OriginPrefix means a known install prefix held the tool.
	OriginPrefix Origin = "prefix"
	// OriginPath means a plain PATH lookup found the tool.
	OriginPath Origin = "path"
)

// Tool describes a discovered executable.
type Tool struct {
	Name   string // tool name, e.g. "conda"
	Exe    string // executable path usable with exec
	Prefix string // install prefix when known
	Origin Origin
}

// resolveExe resolves an explicit executable setting, either a path or a
// bare name looked up on PATH.
func resolveExe(setting string) string {
	if strings.ContainsAny(setting, `/\`) {
		if fileExists(setting) {
			return setting
		}
		return ""
	}
	if exe, err := exec.LookPath(setting); err == nil {
		return exe
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
