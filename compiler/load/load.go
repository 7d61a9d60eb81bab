// Package load reads and structurally validates plugin definition
// documents. A document declares the plugin identity and an ordered list
// of methods, each with a parameters schema and a result schema in the
// recursive {basic, list, object, optional} grammar.
package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blizzardhq/blizzgen/schema"
)

// Document is a loaded plugin definition.
type Document struct {
	Plugin  PluginInfo   `yaml:"plugin"`
	Methods []*MethodDef `yaml:"methods"`
}

// PluginInfo identifies the plugin being generated.
type PluginInfo struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// MethodDef is one declared method with its parameter and result shapes.
type MethodDef struct {
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description"`
	ParametersSchema *schema.Schema `yaml:"parameters_schema"`
	ResultSchema     *schema.Schema `yaml:"result_schema"`
}

// FromFile reads and validates a plugin definition from a YAML file.
func FromFile(path string) (*Document, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	doc, err := FromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// FromBytes decodes and validates a plugin definition document.
func FromBytes(buf []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(buf, doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks the structural rules the generator relies on: a plugin
// name, uniquely named methods, and both schemas present on every method.
func (d *Document) Validate() error {
	if d.Plugin.Name == "" {
		return fmt.Errorf("invalid document: must contain 'plugin' with 'name'")
	}
	seen := make(map[string]struct{}, len(d.Methods))
	for i, m := range d.Methods {
		if m == nil || m.Name == "" {
			return fmt.Errorf("invalid document: method %d has no name", i)
		}
		if _, ok := seen[m.Name]; ok {
			return fmt.Errorf("invalid document: duplicate method %q", m.Name)
		}
		seen[m.Name] = struct{}{}
		if m.ParametersSchema == nil {
			return fmt.Errorf("method %q: missing parameters_schema", m.Name)
		}
		if m.ResultSchema == nil {
			return fmt.Errorf("method %q: missing result_schema", m.Name)
		}
	}
	return nil
}
