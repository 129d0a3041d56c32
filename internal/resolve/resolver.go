package resolve

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"irlink/internal/ir"
	"irlink/internal/observability"
	"irlink/internal/symtab"
)

// ExternalDependencies generates stubs for every unbound symbol of a table.
type ExternalDependencies struct {
	table     *symtab.Table
	providers []Provider
	// workers > 1 queries providers concurrently.
	workers int
}

// NewExternalDependencies creates a resolver over table with a fixed provider
// order.
func NewExternalDependencies(table *symtab.Table, providers []Provider) *ExternalDependencies {
	return &ExternalDependencies{
		table:     table,
		providers: append([]Provider(nil), providers...),
		workers:   1,
	}
}

// WithWorkers sets how many symbols are looked up concurrently.
func (r *ExternalDependencies) WithWorkers(n int) *ExternalDependencies {
	if n < 1 {
		n = 1
	}

	r.workers = n

	return r
}

// ResolveAll binds every unbound symbol to a stub. It returns the symbols
// stubbed, in enumeration order. On failure the first unresolved symbol in
// enumeration order is reported and stubs registered so far are kept.
func (r *ExternalDependencies) ResolveAll(ctx context.Context) ([]ir.Symbol, error) {
	var stubbed []ir.Symbol

	for {
		pending := make([]ir.Symbol, 0)
		for sym := range r.table.AllUnbound() {
			pending = append(pending, sym)
		}

		if len(pending) == 0 {
			return stubbed, nil
		}

		stubs, err := r.lookup(ctx, pending)
		if err != nil {
			return stubbed, err
		}

		for _, stub := range stubs {
			if _, err := r.table.Register(stub); err != nil {
				return stubbed, fmt.Errorf("registering stub: %w", err)
			}

			stubbed = append(stubbed, stub.Symbol)
			observability.StubsSynthesized.Inc()
		}
	}
}

// lookup synthesizes stubs for pending, preserving its order.
func (r *ExternalDependencies) lookup(ctx context.Context, pending []ir.Symbol) ([]*ir.Declaration, error) {
	stubs := make([]*ir.Declaration, len(pending))

	if r.workers == 1 {
		for i, sym := range pending {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			stub, ok := r.synthesize(sym)
			if !ok {
				return nil, r.unresolved(sym)
			}

			stubs[i] = stub
		}

		return stubs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, sym := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}

			if stub, ok := r.synthesize(sym); ok {
				stubs[i] = stub
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, stub := range stubs {
		if stub == nil {
			return nil, r.unresolved(pending[i])
		}
	}

	return stubs, nil
}

// synthesize asks the providers in order; the first match wins.
func (r *ExternalDependencies) synthesize(sym ir.Symbol) (*ir.Declaration, bool) {
	for i, p := range r.providers {
		if sig, ok := p.CanSupply(sym); ok {
			return ir.NewStub(sym, sig, providerName(p, i)), true
		}
	}

	return nil, false
}

func (r *ExternalDependencies) unresolved(sym ir.Symbol) error {
	err := &UnresolvedSymbolError{Symbol: sym}
	if near, ok := suggest(sym, r.providers); ok {
		err.Suggestion = near
	}

	return err
}

// ResolveAll is a shorthand for a sequential ExternalDependencies run.
func ResolveAll(ctx context.Context, table *symtab.Table, providers []Provider) ([]ir.Symbol, error) {
	return NewExternalDependencies(table, providers).ResolveAll(ctx)
}
