package gen

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Generator orchestrates rendering and writing the output files for one
// graph. All files are rendered before anything is written, so a
// generation-time fault produces no partial output.
type Generator struct {
	graph   *Graph
	dialect Dialect
	outDir  string
	workers int
}

// NewGenerator creates a generator writing into outDir. A dialect must be
// attached with WithDialect before calling Generate.
func NewGenerator(g *Graph, outDir string) *Generator {
	workers := g.Config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		graph:   g,
		outDir:  outDir,
		workers: workers,
	}
}

// WithDialect attaches the dialect implementation.
func (g *Generator) WithDialect(d Dialect) *Generator {
	g.dialect = d
	return g
}

// WithWorkers sets the number of parallel file writers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Generate renders all files for the graph and writes them in parallel.
// Method artifacts are independent of each other, so writes may proceed
// concurrently without synchronization.
func (g *Generator) Generate(ctx context.Context) error {
	if g.dialect == nil {
		return NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Generate()")
	}
	if g.outDir == "" {
		return NewConfigError("Target", nil, "missing target directory")
	}

	files, err := g.dialect.Files(g.graph)
	if err != nil {
		return err
	}
	manifest, err := buildManifest(g.graph, g.dialect, files)
	if err != nil {
		return err
	}
	files = append(files, manifest)

	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return NewGenerationError("write", g.outDir, "create output directory", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for _, f := range files {
		f := f
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return g.writeFile(f)
			}
		})
	}
	return eg.Wait()
}

// writeFile writes one rendered file under the output directory.
func (g *Generator) writeFile(f File) error {
	path := filepath.Join(g.outDir, f.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", f.Name, "create directory", err)
	}
	if err := os.WriteFile(path, f.Content, 0o644); err != nil {
		return NewGenerationError("write", f.Name, "write file", err)
	}
	return nil
}
