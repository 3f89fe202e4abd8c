package toolcache

import "github.com/hashicorp/go-version"

// Purge invocations. Both are non-interactive so unattended runs never block
// on a prompt.
var (
	condaCleanArgs = []string{"clean", "--all", "--yes"}
	pipPurgeArgs   = []string{"cache", "purge"}
)

// Oldest tool versions the purge commands are known to work with.
// conda clean --all exists since 4.4, pip cache purge since 20.1.
var (
	CondaMinimum = version.Must(version.NewVersion("4.4.0"))
	PipMinimum   = version.Must(version.NewVersion("20.1"))
)
