// Package main provides the CLI entrypoint for irlink.
//
// irlink links a module fragment against its dependency libraries, moves
// top-level callables into facade classes, and generates one listing set
// per output package.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"irlink/internal/codegen"
	"irlink/internal/config"
	"irlink/internal/diagnostic"
	"irlink/internal/emit"
	"irlink/internal/modfile"
	"irlink/internal/observability"
	"irlink/internal/pipeline"
	"irlink/internal/resolve"
	"irlink/internal/symtab"
)

const VERSION = "0.1.0"

// libList collects repeated -lib flags in order.
type libList []string

func (l *libList) String() string { return strings.Join(*l, ",") }

func (l *libList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

var (
	configPath  = flag.String("config", config.DefaultPath, "Path to project file")
	modulePath  = flag.String("module", "", "Module fragment YAML")
	phasesPath  = flag.String("phases", "", "Phase configuration (YAML or TOML)")
	outDir      = flag.String("out", "", "Output directory")
	failFast    = flag.Bool("fail-fast", true, "Stop dispatching units after the first failure")
	parallelism = flag.Int("j", 1, "Units generated concurrently")
	only        = flag.String("only", "", "Generate only packages matching this glob")
	dumpPath    = flag.String("dump", "", "Write the linked declaration table as YAML")
	metricsPath = flag.String("metrics", "", "Write Prometheus metrics to this textfile")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
	libs        libList
)

func init() {
	flag.Var(&libs, "lib", "Dependency library YAML (repeatable, in provider order)")
}

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("irlink v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("irlink failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Module == "" {
		return errors.New("no module given (-module or module in the project file)")
	}

	phases, err := codegen.NewPhaseConfig(nil, nil)
	if cfg.Phases != "" {
		phases, err = codegen.LoadPhaseConfig(cfg.Phases)
	}

	if err != nil {
		return fmt.Errorf("loading phases: %w", err)
	}

	module, err := modfile.LoadModule(cfg.Module)
	if err != nil {
		return err
	}

	var deps []*resolve.Library

	for _, path := range cfg.Libs {
		lib, err := modfile.LoadLibrary(path)
		if err != nil {
			return err
		}

		deps = append(deps, lib)
	}

	factory, err := codegen.NewFactory(emit.Listing{}, phases)
	if err != nil {
		return err
	}

	diags := &diagnostic.Diagnostics{}

	table := symtab.New()

	driver, err := pipeline.New(table, resolve.TypicalProviders(nil, deps...), factory, pipeline.Options{
		FailFast:       cfg.FailFast,
		Parallelism:    cfg.Parallelism,
		ResolveWorkers: cfg.ResolveWorkers,
		Only:           cfg.Only,
		Logger:         logger,
		Sink:           diagnostic.Tee(diags, diagnostic.SlogSink{Logger: logger}),
	})
	if err != nil {
		return err
	}

	res, runErr := driver.Run(ctx, module)

	if len(res.Artifacts) > 0 {
		written, err := emit.WriteFiles(res.Artifacts, cfg.Out)
		if err != nil {
			return err
		}

		logger.Info("wrote listings", "files", len(written), "out", cfg.Out)
	}

	if cfg.Dump != "" {
		if err := modfile.WriteFile(table, cfg.Dump); err != nil {
			return err
		}
	}

	if cfg.Metrics != "" {
		if err := observability.WriteTextfile(cfg.Metrics); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	if diags.HasErrors() {
		return diags.Error()
	}

	if runErr != nil {
		return runErr
	}

	logger.Info("done", "units", len(res.Units), "skipped", len(res.Skipped), "stubs", len(res.Stubs))

	return nil
}

// loadConfig reads the project file and applies flags that were set
// explicitly on top of it. A missing default project file is not an error.
func loadConfig() (*config.Config, error) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(*configPath)
	if err != nil {
		if set["config"] || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		cfg = config.Default()
	}

	if set["module"] {
		cfg.Module = *modulePath
	}

	if set["lib"] {
		cfg.Libs = libs
	}

	if set["phases"] {
		cfg.Phases = *phasesPath
	}

	if set["out"] {
		cfg.Out = *outDir
	}

	if set["fail-fast"] {
		cfg.FailFast = *failFast
	}

	if set["j"] {
		cfg.Parallelism = *parallelism
	}

	if set["only"] {
		cfg.Only = *only
	}

	if set["dump"] {
		cfg.Dump = *dumpPath
	}

	if set["metrics"] {
		cfg.Metrics = *metricsPath
	}

	return cfg, nil
}
