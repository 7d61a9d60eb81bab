package gen

// File is one rendered output file, path relative to the target
// directory.
type File struct {
	Name    string
	Content []byte
}

// Dialect renders the generated source files for one output language.
// Implementations live in subpackages (gen/c, gen/cpp) and are attached
// to a Generator by the caller; the registry cannot live here without an
// import cycle.
//
// Files must be a pure rendering: no filesystem access, fully
// deterministic for a given graph, and all-or-nothing on error so a
// generation fault never leaves partial output behind.
type Dialect interface {
	// Name returns the dialect name (e.g. "c", "cpp").
	Name() string
	// Files renders every output file for the graph.
	Files(g *Graph) ([]File, error)
}
