package load_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardhq/blizzgen/compiler/load"
	"github.com/blizzardhq/blizzgen/schema"
)

const validDoc = `
plugin:
  name: WifiDiag
  version: 0.2.0
  description: Wi-Fi diagnostics plugin
methods:
  - name: GetSignal
    description: Read signal strength
    parameters_schema:
      kind: object
      object:
        properties:
          iface:
            kind: basic
            basic: string
    result_schema:
      kind: basic
      basic: integer
  - name: Scan
    parameters_schema:
      kind: basic
      basic: string
    result_schema:
      kind: list
      list:
        items:
          kind: basic
          basic: string
`

func TestFromBytes(t *testing.T) {
	doc, err := load.FromBytes([]byte(validDoc))
	require.NoError(t, err)

	t.Run("Plugin", func(t *testing.T) {
		assert.Equal(t, "WifiDiag", doc.Plugin.Name)
		assert.Equal(t, "0.2.0", doc.Plugin.Version)
		assert.Equal(t, "Wi-Fi diagnostics plugin", doc.Plugin.Description)
	})

	t.Run("Methods", func(t *testing.T) {
		require.Len(t, doc.Methods, 2)
		m := doc.Methods[0]
		assert.Equal(t, "GetSignal", m.Name)
		assert.Equal(t, "Read signal strength", m.Description)
		require.Equal(t, schema.KindObject, m.ParametersSchema.Kind)
		iface, ok := m.ParametersSchema.Property("iface")
		require.True(t, ok)
		assert.Equal(t, schema.TypeString, iface.Basic)
		assert.Equal(t, schema.KindBasic, m.ResultSchema.Kind)
	})

	t.Run("NestedSchema", func(t *testing.T) {
		m := doc.Methods[1]
		require.Equal(t, schema.KindList, m.ResultSchema.Kind)
		assert.Equal(t, schema.TypeString, m.ResultSchema.Items.Basic)
	})
}

func TestFromBytesErrors(t *testing.T) {
	t.Run("MissingPluginName", func(t *testing.T) {
		_, err := load.FromBytes([]byte("plugin:\n  version: 1.0.0\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must contain 'plugin' with 'name'")
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := load.FromBytes(nil)
		require.Error(t, err)
	})

	t.Run("UnnamedMethod", func(t *testing.T) {
		_, err := load.FromBytes([]byte(`
plugin:
  name: P
methods:
  - description: no name here
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "method 0 has no name")
	})

	t.Run("DuplicateMethod", func(t *testing.T) {
		_, err := load.FromBytes([]byte(`
plugin:
  name: P
methods:
  - name: M
    parameters_schema: {kind: basic, basic: integer}
    result_schema: {kind: basic, basic: integer}
  - name: M
    parameters_schema: {kind: basic, basic: integer}
    result_schema: {kind: basic, basic: integer}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate method "M"`)
	})

	t.Run("MissingSchemas", func(t *testing.T) {
		_, err := load.FromBytes([]byte(`
plugin:
  name: P
methods:
  - name: M
    result_schema: {kind: basic, basic: integer}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing parameters_schema")
	})

	t.Run("SchemaFaultSurfaces", func(t *testing.T) {
		_, err := load.FromBytes([]byte(`
plugin:
  name: P
methods:
  - name: M
    parameters_schema: {kind: blob}
    result_schema: {kind: basic, basic: integer}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown schema kind: blob")
	})
}

func TestFromFile(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plugin.yaml")
		require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))
		doc, err := load.FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "WifiDiag", doc.Plugin.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := load.FromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing.yaml")
	})
}
