package gen_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardhq/blizzgen/compiler/gen"
)

type stubDialect struct {
	files []gen.File
	err   error
}

func (d *stubDialect) Name() string { return "stub" }

func (d *stubDialect) Files(*gen.Graph) ([]gen.File, error) {
	return d.files, d.err
}

func TestGenerate(t *testing.T) {
	graph, err := gen.NewGraph(&gen.Config{}, testDocument())
	require.NoError(t, err)

	t.Run("WritesFilesAndManifest", func(t *testing.T) {
		dir := t.TempDir()
		d := &stubDialect{files: []gen.File{
			{Name: "demo_plugin.c", Content: []byte("/* plugin */\n")},
			{Name: "demo_impl.c", Content: []byte("/* impl */\n")},
		}}
		err := gen.NewGenerator(graph, dir).WithDialect(d).Generate(context.Background())
		require.NoError(t, err)

		plugin, err := os.ReadFile(filepath.Join(dir, "demo_plugin.c"))
		require.NoError(t, err)
		assert.Equal(t, "/* plugin */\n", string(plugin))

		raw, err := os.ReadFile(filepath.Join(dir, gen.ManifestName))
		require.NoError(t, err)
		var m gen.Manifest
		require.NoError(t, json.Unmarshal(raw, &m))
		assert.Equal(t, "DemoPlugin", m.Plugin)
		assert.Equal(t, "stub", m.Dialect)
		assert.Equal(t, []string{"demo_plugin.c", "demo_impl.c"}, m.Files)
		require.Len(t, m.Methods, 2)
		assert.Equal(t, "Echo", m.Methods[0].Name)
		require.Len(t, m.Methods[0].Results, 1)
		assert.Equal(t, "text", m.Methods[0].Results[0].AutoFrom)
	})

	t.Run("NoDialect", func(t *testing.T) {
		err := gen.NewGenerator(graph, t.TempDir()).Generate(context.Background())
		require.Error(t, err)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("MissingTarget", func(t *testing.T) {
		err := gen.NewGenerator(graph, "").WithDialect(&stubDialect{}).Generate(context.Background())
		require.Error(t, err)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("DialectFault", func(t *testing.T) {
		dir := t.TempDir()
		d := &stubDialect{err: gen.NewGenerationError("render", "demo.c", "boom", nil)}
		err := gen.NewGenerator(graph, dir).WithDialect(d).Generate(context.Background())
		require.Error(t, err)
		assert.True(t, gen.IsGenerationError(err))

		// Nothing was written.
		entries, rerr := os.ReadDir(dir)
		require.NoError(t, rerr)
		assert.Empty(t, entries)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d := &stubDialect{files: []gen.File{{Name: "a.c", Content: []byte("x")}}}
		err := gen.NewGenerator(graph, t.TempDir()).WithDialect(d).Generate(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("NestedFileName", func(t *testing.T) {
		dir := t.TempDir()
		d := &stubDialect{files: []gen.File{{Name: filepath.Join("include", "demo.h"), Content: []byte("#pragma once\n")}}}
		err := gen.NewGenerator(graph, dir).WithDialect(d).WithWorkers(1).Generate(context.Background())
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "include", "demo.h"))
		assert.NoError(t, err)
	})
}
