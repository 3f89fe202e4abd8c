package discover

// System discovers tools on the running host.
type System struct{}

// Conda locates a conda installation, see the package-level Conda function.
func (System) Conda(overridePrefix string) *Tool {
	return Conda(overridePrefix)
}

// Pip locates a pip executable, see the package-level Pip function.
func (System) Pip(override string) *Tool {
	return Pip(override)
}
