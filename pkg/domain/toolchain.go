package domain

// ToolStatus is the probed state of a single build tool on the host.
type ToolStatus struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"` // resolved location on PATH
	Version string `json:"version,omitempty"`
	Found   bool   `json:"found"`
}

// ToolchainState is the probed state of the native build toolchain.
// It is read, never assumed: the environment builder re-probes rather
// than trusting that the toolchain stage ran in the same process.
type ToolchainState struct {
	Compiler ToolStatus `json:"compiler"`
	CMake    ToolStatus `json:"cmake"`
}

// Ready reports whether the host can compile native extensions.
func (s ToolchainState) Ready() bool {
	return s.Compiler.Found && s.CMake.Found
}
