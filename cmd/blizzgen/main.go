// Command blizzgen generates rbus plugin sources from a plugin
// definition document.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/blizzardhq/blizzgen/compiler/gen"
	cgen "github.com/blizzardhq/blizzgen/compiler/gen/c"
	cppgen "github.com/blizzardhq/blizzgen/compiler/gen/cpp"
	"github.com/blizzardhq/blizzgen/compiler/load"
)

var version = "dev"

type cli struct {
	Generate generateCmd `cmd:"" default:"withargs" help:"Generate plugin sources from a definition document."`

	Verbose bool             `short:"v" help:"Enable debug logging."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

type generateCmd struct {
	Input     string `arg:"" help:"Path to the plugin definition YAML file." type:"existingfile"`
	Language  string `help:"Output dialect." enum:"c,cpp" default:"c"`
	OutputDir string `help:"Output directory for generated files." default:"./generated" type:"path"`
	Plugin    string `help:"Override the plugin name declared in the document."`
	Header    string `help:"Override the header comment placed on generated files."`
	Workers   int    `help:"Parallel file writers (0 uses all CPUs)."`
	Watch     bool   `short:"w" help:"Keep running and regenerate whenever the input changes."`
}

type appContext struct {
	log *zap.Logger
}

func main() {
	var c cli
	ktx := kong.Parse(&c,
		kong.Name("blizzgen"),
		kong.Description("Schema-driven rbus plugin source generator."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	app := &appContext{log: newLogger(c.Verbose)}
	defer app.log.Sync() //nolint:errcheck

	ktx.FatalIfErrorf(ktx.Run(app))
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	return log
}

func (c *generateCmd) Run(app *appContext) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.generate(ctx, app.log); err != nil {
		if !c.Watch {
			return err
		}
		// In watch mode a broken document is a transient state; log
		// and wait for the next save.
		app.log.Error("generate", zap.Error(err))
	}
	if !c.Watch {
		return nil
	}
	return c.watch(ctx, app.log)
}

// generate runs one full compile-and-emit pass.
func (c *generateCmd) generate(ctx context.Context, log *zap.Logger) error {
	start := time.Now()
	doc, err := load.FromFile(c.Input)
	if err != nil {
		return err
	}

	opts := []gen.Option{
		gen.WithTarget(c.OutputDir),
		gen.WithDialect(c.Language),
	}
	if c.Plugin != "" {
		opts = append(opts, gen.WithPluginName(c.Plugin))
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	graph, err := gen.NewGraph(&gen.Config{}, doc, opts...)
	if err != nil {
		return err
	}

	var dialect gen.Dialect
	switch c.Language {
	case "cpp":
		dialect = cppgen.New()
	default:
		dialect = cgen.New()
	}

	if err := gen.NewGenerator(graph, c.OutputDir).WithDialect(dialect).Generate(ctx); err != nil {
		return err
	}
	log.Info("generated plugin sources",
		zap.String("plugin", graph.Plugin.Name),
		zap.String("dialect", dialect.Name()),
		zap.Int("methods", len(graph.Methods)),
		zap.String("dir", c.OutputDir),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// watch regenerates on every change to the input document until the
// context is cancelled. Editors replace files on save, so the watch is
// placed on the parent directory and filtered by name.
func (c *generateCmd) watch(ctx context.Context, log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	input, err := filepath.Abs(c.Input)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return err
	}
	log.Info("watching for changes", zap.String("input", input))

	// Coalesce editor write bursts into a single regeneration.
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch", zap.Error(err))
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != input {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if err := c.generate(ctx, log); err != nil {
				log.Error("generate", zap.Error(err))
			}
		}
	}
}
