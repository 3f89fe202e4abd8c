package sweep

import "context"

// Manager defines the interface for workspace sweep operations.
type Manager interface {
	Sweep(ctx context.Context, options Options) (*Result, error)
	Usage(options Options) (*Usage, error)
}

// Kind distinguishes directory targets from file targets.
type Kind string

// Target kinds.
const (
	KindDir  Kind = "dir"
	KindFile Kind = "file"
)

// Target is a single name pattern the sweep removes. Directory targets match
// the base name exactly, file targets match it as a glob pattern.
type Target struct {
	Name string
	Kind Kind
}

// Options specifies what to sweep.
type Options struct {
	Root    string   // workspace root, must be an existing directory
	DryRun  bool     // report matches without deleting anything
	Extra   []Target // user-defined targets swept alongside the builtin ones
	Exclude []string // directory base names the walk never descends into
}

// Failure records a single entry that could not be removed.
type Failure struct {
	Path string // workspace-relative path
	Err  error
}

// Result contains information about what was swept. In dry-run mode the
// counts describe what would have been removed.
type Result struct {
	DirsRemoved  int
	FilesRemoved int
	BytesFreed   int64
	Entries      []string // workspace-relative paths of removed entries
	Failures     []Failure
}

// TotalRemoved returns the number of removed entries.
func (r *Result) TotalRemoved() int {
	return r.DirsRemoved + r.FilesRemoved
}

// Usage describes how much reclaimable data a workspace currently holds.
type Usage struct {
	Root string

	BytecodeDirs  int
	BytecodeBytes int64

	// Compiled modules found outside a bytecode directory
	StrayFiles int
	StrayBytes int64

	PytestCachePresent bool
	PytestCacheFiles   int
	PytestCacheBytes   int64

	// Matches of user-defined extra targets
	ExtraEntries int
	ExtraBytes   int64

	TotalBytes int64
}
