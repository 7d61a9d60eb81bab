// Package cgen renders the C dialect: an rbus plugin source, impl stubs
// with their header, and the CMake build descriptor.
package cgen

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/blizzardhq/blizzgen/compiler/gen"
)

// Dialect is the C output dialect.
type Dialect struct{}

// New returns the C dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "c" }

// templateData is the root object the file templates render against.
type templateData struct {
	*gen.Graph
	// Symbol is the snake_case plugin name used in file and function
	// names.
	Symbol string
	Header string
}

// Files renders the full C output set:
//
//	<plugin>_plugin.c  registration, descriptors, request handlers
//	<plugin>_impl.c    user implementation stubs
//	<plugin>_impl.h    implementation prototypes
//	CMakeLists.txt     build descriptor
func (d *Dialect) Files(g *gen.Graph) ([]gen.File, error) {
	data := &templateData{
		Graph:  g,
		Symbol: g.Symbol(),
		Header: header(g),
	}
	out := make([]gen.File, 0, 4)
	for _, ft := range []struct {
		name string
		tmpl *template.Template
	}{
		{data.Symbol + "_plugin.c", pluginTmpl},
		{data.Symbol + "_impl.c", implTmpl},
		{data.Symbol + "_impl.h", implHeaderTmpl},
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

// header returns the generated-file banner.
func header(g *gen.Graph) string {
	if g.Config != nil && g.Config.Header != "" {
		return g.Config.Header
	}
	return fmt.Sprintf("/* Code generated by blizzgen for plugin %s. DO NOT EDIT. */", g.Plugin.Name)
}
