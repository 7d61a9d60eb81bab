// Package cppgen renders the C++ dialect: a single plugin translation
// unit with inline implementation stubs, plus the CMake build
// descriptor.
package cppgen

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/blizzardhq/blizzgen/compiler/gen"
)

// Dialect is the C++ output dialect.
type Dialect struct{}

// New returns the C++ dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "cpp" }

type templateData struct {
	*gen.Graph
	Symbol string
	Header string
}

// Files renders the C++ output set:
//
//	<plugin>_plugin.cpp  registration, descriptors, handlers, stubs
//	CMakeLists.txt       build descriptor
func (d *Dialect) Files(g *gen.Graph) ([]gen.File, error) {
	data := &templateData{
		Graph:  g,
		Symbol: g.Symbol(),
		Header: header(g),
	}
	out := make([]gen.File, 0, 2)
	for _, ft := range []struct {
		name string
		tmpl *template.Template
	}{
		{data.Symbol + "_plugin.cpp", pluginTmpl},
		{"CMakeLists.txt", cmakeTmpl},
	} {
		var buf bytes.Buffer
		if err := ft.tmpl.Execute(&buf, data); err != nil {
			return nil, gen.NewGenerationError("render", ft.name, "execute template", err)
		}
		out = append(out, gen.File{Name: ft.name, Content: buf.Bytes()})
	}
	return out, nil
}

func header(g *gen.Graph) string {
	if g.Config != nil && g.Config.Header != "" {
		return g.Config.Header
	}
	return fmt.Sprintf("// Code generated by blizzgen for plugin %s. DO NOT EDIT.", g.Plugin.Name)
}
