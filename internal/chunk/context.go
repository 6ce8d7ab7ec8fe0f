package chunk

// Context is the chunking-environment query surface the reference pipeline
// sees. Chunk boundaries themselves are decided elsewhere; this component
// only asks how the target runtime can load what was decided.
type Context interface {
	// ChunkLoading returns the target runtime's loading capability.
	ChunkLoading() Loading
	// ChunkBase returns the public base path chunks are served under.
	ChunkBase() string
}

// Environment is the concrete Context built from workpack.toml.
type Environment struct {
	Loading   Loading
	Base      string
	Externals bool // import externally-resolved modules instead of inlining
}

func (e *Environment) ChunkLoading() Loading { return e.Loading }

func (e *Environment) ChunkBase() string {
	if e.Base == "" {
		return "/_chunks/"
	}
	return e.Base
}

// ImportExternals reports whether external modules should be imported.
func (e *Environment) ImportExternals() bool { return e.Externals }
