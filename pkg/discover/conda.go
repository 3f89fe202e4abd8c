package discover

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/glorpus-work/pysweep/pkg/platform"
)

// condaExeEnv is set by conda's shell integration and points at the binary.
const condaExeEnv = "CONDA_EXE"

// Conda locates a conda installation. An explicit prefix override from the
// configuration wins over the environment, which wins over the known install
// prefixes, which win over a PATH lookup. Returns nil when nothing is found.
func Conda(overridePrefix string) *Tool {
	return condaFrom(overridePrefix, os.Getenv(condaExeEnv), defaultCondaPrefixes())
}

func condaFrom(overridePrefix, envExe string, prefixes []string) *Tool {
	if overridePrefix != "" {
		if tool := condaAt(overridePrefix, OriginConfig); tool != nil {
			return tool
		}
		// a configured prefix without a conda install falls through to
		// the regular chain
	}

	if envExe != "" && fileExists(envExe) {
		return &Tool{Name: "conda", Exe: envExe, Prefix: prefixFromExe(envExe), Origin: OriginEnv}
	}

	for _, prefix := range prefixes {
		if tool := condaAt(prefix, OriginPrefix); tool != nil {
			return tool
		}
	}

	if exe, err := exec.LookPath("conda"); err == nil {
		return &Tool{Name: "conda", Exe: exe, Origin: OriginPath}
	}

	return nil
}

// condaAt returns the conda under prefix when the marker file is present.
func condaAt(prefix string, origin Origin) *Tool {
	if !fileExists(condaMarker(prefix)) {
		return nil
	}
	exe := condaExeUnder(prefix)
	if exe == "" {
		// marker without a runnable binary, keep probing
		return nil
	}
	return &Tool{Name: "conda", Exe: exe, Prefix: prefix, Origin: origin}
}

// condaMarker is the file probed to decide whether a prefix holds a conda
// installation.
func condaMarker(prefix string) string {
	if platform.IsWindows() {
		return filepath.Join(prefix, "Scripts", platform.ExeName("conda"))
	}
	return filepath.Join(prefix, "etc", "profile.d", "conda.sh")
}

func condaExeUnder(prefix string) string {
	if platform.IsWindows() {
		exe := filepath.Join(prefix, "Scripts", platform.ExeName("conda"))
		if fileExists(exe) {
			return exe
		}
		return ""
	}
	for _, rel := range []string{"bin", "condabin"} {
		exe := filepath.Join(prefix, rel, "conda")
		if fileExists(exe) {
			return exe
		}
	}
	return ""
}

// defaultCondaPrefixes lists the install locations probed in order.
func defaultCondaPrefixes() []string {
	var prefixes []string

	if platform.IsWindows() {
		if home, err := os.UserHomeDir(); err == nil {
			prefixes = append(prefixes,
				filepath.Join(home, "Miniconda3"),
				filepath.Join(home, "Anaconda3"),
			)
		}
		if programData := os.Getenv("ProgramData"); programData != "" {
			prefixes = append(prefixes,
				filepath.Join(programData, "Miniconda3"),
				filepath.Join(programData, "Anaconda3"),
			)
		}
		return prefixes
	}

	if home, err := os.UserHomeDir(); err == nil {
		prefixes = append(prefixes,
			filepath.Join(home, "miniconda3"),
			filepath.Join(home, "anaconda3"),
			filepath.Join(home, "miniforge3"),
		)
	}
	prefixes = append(prefixes,
		"/opt/miniconda3",
		"/opt/anaconda3",
		"/usr/local/miniconda3",
		"/usr/local/anaconda3",
	)
	return prefixes
}

// prefixFromExe derives the install prefix from a conda binary path.
// CONDA_EXE conventionally points at <prefix>/bin/conda.
func prefixFromExe(exe string) string {
	dir := filepath.Dir(exe)
	switch filepath.Base(dir) {
	case "bin", "condabin", "Scripts":
		return filepath.Dir(dir)
	}
	return ""
}
