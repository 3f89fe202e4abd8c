package toolcache

import (
	"context"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/glorpus-work/pysweep/pkg/errors"
)

// Version asks the tool at exe for its version and parses the result.
// Both conda and pip report "name X.Y.Z ..." on the first line, so the second
// whitespace-separated field is taken as the version. The raw first line is
// returned alongside for display.
func Version(ctx context.Context, runner Runner, exe string) (*version.Version, string, error) {
	output, err := runner.Run(ctx, exe, "--version")
	if err != nil {
		return nil, "", errors.Wrapf(ErrVersionUnknown, "%s --version: %v", exe, err)
	}
	line := firstLine(output)
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, line, errors.Wrapf(ErrVersionUnknown, "unexpected version output %q", line)
	}
	v, err := version.NewVersion(fields[1])
	if err != nil {
		return nil, line, errors.Wrapf(ErrVersionUnknown, "cannot parse %q", fields[1])
	}
	return v, line, nil
}

func firstLine(output []byte) string {
	s := strings.TrimSpace(string(output))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
