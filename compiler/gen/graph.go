package gen

import (
	"github.com/go-openapi/inflect"

	"github.com/blizzardhq/blizzgen/compiler/load"
)

// Config holds the generation settings shared by all dialects.
type Config struct {
	// Target is the output directory.
	Target string
	// Dialect is the output dialect name ("c" or "cpp").
	Dialect string
	// Plugin overrides the plugin name declared in the document.
	Plugin string
	// Header is the comment placed at the top of every generated file.
	Header string
	// Workers bounds parallel file emission; 0 means GOMAXPROCS.
	Workers int
}

// Graph is a fully compiled plugin: configuration, identity and the
// per-method artifact bundles. Building the graph runs every method
// compiler up front, so any generation-time fault surfaces before a
// single file is written.
type Graph struct {
	*Config
	Plugin  load.PluginInfo
	Methods []*Method
}

// NewGraph compiles a loaded document under the given configuration.
func NewGraph(cfg *Config, doc *load.Document, opts ...Option) (*Graph, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	g := &Graph{Config: cfg, Plugin: doc.Plugin}
	if cfg.Plugin != "" {
		g.Plugin.Name = cfg.Plugin
	}
	if g.Plugin.Name == "" {
		return nil, NewConfigError("Plugin", nil, "plugin name missing from document and configuration")
	}
	for i, def := range doc.Methods {
		m, err := compileMethod(i, def)
		if err != nil {
			return nil, err
		}
		g.Methods = append(g.Methods, m)
	}
	return g, nil
}

// Symbol returns the identifier-safe snake_case plugin name used for file
// and function naming.
func (g *Graph) Symbol() string {
	return inflect.Underscore(g.Plugin.Name)
}
