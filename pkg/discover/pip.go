package discover

import "os/exec"

// Pip locates a pip executable. An explicit override from the configuration
// wins; otherwise pip and then pip3 are looked up on PATH. Returns nil when
// nothing is found.
func Pip(override string) *Tool {
	if override != "" {
		if exe := resolveExe(override); exe != "" {
			return &Tool{Name: "pip", Exe: exe, Origin: OriginConfig}
		}
		// an override that resolves to nothing falls through to PATH
	}

	for _, name := range []string{"pip", "pip3"} {
		if exe, err := exec.LookPath(name); err == nil {
			return &Tool{Name: name, Exe: exe, Origin: OriginPath}
		}
	}

	return nil
}

// Python locates a Python interpreter on PATH, preferring python3.
func Python() *Tool {
	for _, name := range []string{"python3", "python"} {
		if exe, err := exec.LookPath(name); err == nil {
			return &Tool{Name: name, Exe: exe, Origin: OriginPath}
		}
	}
	return nil
}
