package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"irlink/internal/codegen"
	"irlink/internal/diagnostic"
	"irlink/internal/facade"
	"irlink/internal/ir"
	"irlink/internal/observability"
	"irlink/internal/resolve"
	"irlink/internal/symtab"
)

// Options tunes a driver run.
type Options struct {
	// FailFast stops dispatching units after the first unit failure.
	FailFast bool
	// Parallelism is the number of units generated concurrently.
	Parallelism int
	// ResolveWorkers is the number of concurrent provider lookups.
	ResolveWorkers int
	// Only restricts generation to packages matching this glob
	// ("/"-separated, e.g. "app/**"). Empty means all packages.
	Only string
	// AggregateMultifile requests one merged unit per multifile facade.
	AggregateMultifile bool
	// Logger receives progress logs; slog.Default() when nil.
	Logger *slog.Logger
	// Sink receives diagnostics; discarded when nil.
	Sink diagnostic.Sink
}

// DefaultOptions returns the options for a single-module compilation.
func DefaultOptions() Options {
	return Options{
		FailFast:       true,
		Parallelism:    1,
		ResolveWorkers: 1,
	}
}

// Result summarizes a run. It is returned even when the run fails.
type Result struct {
	// Stubs are the symbols bound to external stubs during this run.
	Stubs []ir.Symbol
	// Reparented is the number of callables moved into facades.
	Reparented int
	// Units are all generation units, ordered by package.
	Units []*codegen.Unit
	// Artifacts are the outputs of the units that completed, in unit order.
	Artifacts []*codegen.Artifact
	// Skipped lists the packages that were not dispatched.
	Skipped []string
}

// Driver orchestrates one compilation over one symbol table.
type Driver struct {
	table     *symtab.Table
	providers []resolve.Provider
	factory   *codegen.Factory
	opts      Options
	only      glob.Glob
	logger    *slog.Logger
	sink      diagnostic.Sink
}

// New creates a driver. Providers are consulted in the given order.
func New(table *symtab.Table, providers []resolve.Provider, factory *codegen.Factory, opts Options) (*Driver, error) {
	if table == nil {
		return nil, errors.New("symbol table is required")
	}

	if factory == nil {
		return nil, errors.New("codegen factory is required")
	}

	d := &Driver{
		table:     table,
		providers: providers,
		factory:   factory,
		opts:      opts,
		logger:    opts.Logger,
		sink:      opts.Sink,
	}

	if d.opts.Parallelism < 1 {
		d.opts.Parallelism = 1
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	if d.sink == nil {
		d.sink = diagnostic.Discard
	}

	if opts.Only != "" {
		g, err := glob.Compile(opts.Only, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid package filter %q: %w", opts.Only, err)
		}

		d.only = g
	}

	return d, nil
}

// Table returns the driver's symbol table.
func (d *Driver) Table() *symtab.Table {
	return d.table
}

// Run links module and generates its units.
func (d *Driver) Run(ctx context.Context, module *ir.ModuleFragment) (*Result, error) {
	res := &Result{}

	if d.opts.AggregateMultifile {
		// Fails before the table is touched.
		if _, err := d.factory.NewMultifileClassUnit(module.Name, multifileKeys(module)); err != nil {
			return res, d.fatal("factory", err)
		}
	}

	err := d.stage("register", func() error {
		return d.table.RegisterModule(module)
	})
	if err != nil {
		return res, d.fatal("register", err)
	}

	err = d.stage("resolve", func() error {
		stubs, err := resolve.NewExternalDependencies(d.table, d.providers).
			WithWorkers(d.opts.ResolveWorkers).
			ResolveAll(ctx)
		res.Stubs = stubs

		return err
	})
	if err != nil {
		return res, d.fatal("resolve", err)
	}

	d.logger.Info("resolved external dependencies", "module", module.Name, "stubs", len(res.Stubs))

	err = d.stage("reparent", func() error {
		n, err := facade.NewGenerator(d.table).Reparent()
		res.Reparented = n

		return err
	})
	if err != nil {
		return res, d.fatal("reparent", err)
	}

	d.logger.Info("reparented top-level callables", "module", module.Name, "callables", res.Reparented)

	err = d.stage("partition", func() error {
		units, err := codegen.Partition(d.table, module, d.factory)
		res.Units = units

		return err
	})
	if err != nil {
		return res, d.fatal("partition", err)
	}

	d.logger.Info("partitioned module", "module", module.Name, "units", len(res.Units))

	err = d.stage("generate", func() error {
		return d.generate(ctx, res)
	})

	return res, err
}

// generate dispatches the units and collects their outcome in unit order.
func (d *Driver) generate(ctx context.Context, res *Result) error {
	var (
		g      errgroup.Group
		failed atomic.Bool
	)

	slots := semaphore.NewWeighted(int64(d.opts.Parallelism))
	dispatched := make([]bool, len(res.Units))

	for i, u := range res.Units {
		pkg := u.PackageIdentity()

		if d.only != nil && !d.only.Match(pkg) {
			d.logger.Debug("package filtered out", "package", pkg)
			continue
		}

		// The failure flag is read only after a slot frees up.
		if err := slots.Acquire(ctx, 1); err != nil {
			continue
		}

		if (d.opts.FailFast && failed.Load()) || ctx.Err() != nil {
			slots.Release(1)
			continue
		}

		dispatched[i] = true

		g.Go(func() error {
			defer slots.Release(1)

			d.logger.Debug("generating unit", "package", pkg, "declarations", len(u.Declarations()))

			if _, err := u.Generate(ctx); err != nil {
				failed.Store(true)
				d.logger.Warn("unit generation failed", "package", pkg, "error", err)
			}

			return nil
		})
	}

	_ = g.Wait()

	var errs []error

	for i, u := range res.Units {
		pkg := u.PackageIdentity()

		if !dispatched[i] {
			res.Skipped = append(res.Skipped, pkg)
			d.sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticInfo,
				Code:     "unit_skipped",
				Message:  "generation unit was not dispatched",
				Unit:     pkg,
			})

			continue
		}

		switch u.State() {
		case codegen.StateDone:
			res.Artifacts = append(res.Artifacts, u.Artifact())
		case codegen.StateFailed:
			errs = append(errs, u.Err())
			d.sink.Report(diagnostic.FromError(u.Err(), pkg))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return ctx.Err()
}

// stage runs fn and records its duration.
func (d *Driver) stage(name string, fn func() error) error {
	start := time.Now()
	defer func() {
		observability.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	return fn()
}

// fatal reports a stage failure and wraps it with the stage name.
func (d *Driver) fatal(stage string, err error) error {
	d.sink.Report(diagnostic.FromError(err, ""))
	d.logger.Error("compilation aborted", "stage", stage, "error", err)

	return fmt.Errorf("%s: %w", stage, err)
}

// multifileKeys lists the multifile facade names of module, in file order.
func multifileKeys(module *ir.ModuleFragment) []string {
	var keys []string

	seen := make(map[string]bool)

	for _, f := range module.Files {
		if !f.Multifile {
			continue
		}

		key := f.Package + "/" + f.JvmName
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	return keys
}
