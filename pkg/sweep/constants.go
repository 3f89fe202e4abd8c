package sweep

// Builtin cache names removed from every workspace. These are fixed and
// cannot be disabled through configuration.
const (
	// BytecodeDirName is the directory Python writes compiled bytecode into.
	BytecodeDirName = "__pycache__"

	// PytestCacheDirName is the directory pytest keeps its state in.
	// Only the instance directly under the workspace root is removed.
	PytestCacheDirName = ".pytest_cache"
)

// BytecodeFileExts lists the compiled-module extensions removed when a file
// appears outside a bytecode directory.
var BytecodeFileExts = []string{".pyc", ".pyo", ".pyd"}
