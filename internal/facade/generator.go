package facade

import (
	"fmt"
	"sync"

	"irlink/internal/ir"
	"irlink/internal/observability"
	"irlink/internal/symtab"
)

// Generator creates facade containers on demand and registers them in the
// symbol table.
type Generator struct {
	table *symtab.Table
	mu    sync.Mutex
}

// NewGenerator creates a Generator over table.
func NewGenerator(table *symtab.Table) *Generator {
	return &Generator{table: table}
}

// GenerateOrGetFacadeClass returns the facade that decl belongs to,
// creating it on first request.
func (g *Generator) GenerateOrGetFacadeClass(decl *ir.Declaration) (*ir.Declaration, error) {
	key, err := GroupingKeyOf(decl)
	if err != nil {
		return nil, err
	}

	return g.ForKey(decl.Symbol, key)
}

// ForKey returns the facade for key; requester is only used in errors.
func (g *Generator) ForKey(requester ir.Symbol, key GroupingKey) (*ir.Declaration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.table.Lookup(key.Symbol()); ok {
		if existing.Facade == nil {
			return nil, &FacadeResolutionError{
				Symbol: requester,
				Key:    key.String(),
				Reason: fmt.Sprintf("%s is already declared as a %s", existing.Symbol, existing.Kind()),
			}
		}

		if existing.Facade.Key != key.String() {
			return nil, &FacadeResolutionError{
				Symbol: requester,
				Key:    key.String(),
				Reason: "facade name clashes with " + existing.Facade.Key,
			}
		}

		return existing, nil
	}

	facade := &ir.Declaration{
		Symbol:    key.Symbol(),
		Signature: ir.Signature{Kind: ir.KindFacade},
		Origin:    ir.OriginFacade,
		Facade: &ir.FacadeInfo{
			Key:       key.String(),
			ID:        key.ID(),
			Multifile: key.Multifile(),
		},
	}

	if _, err := g.table.Register(facade); err != nil {
		return nil, fmt.Errorf("registering facade %s: %w", key, err)
	}

	observability.FacadesCreated.Inc()

	return facade, nil
}

// ReparentTopLevelCallables moves every local top-level callable without an
// owner into its facade and returns how many were moved. Callables that
// already have an owner are skipped, so running it twice changes nothing.
// Grouping keys are computed for all callables before anything is mutated.
func ReparentTopLevelCallables(table *symtab.Table) (int, error) {
	return NewGenerator(table).Reparent()
}

// Reparent is ReparentTopLevelCallables using g's facade cache. It refuses
// to run while the table still has unbound symbols.
func (g *Generator) Reparent() (int, error) {
	if sym, ok := g.table.FirstUnbound(); ok {
		return 0, fmt.Errorf("reparenting: %w: %s", symtab.ErrUnboundSymbols, sym)
	}

	callables := g.table.FunctionsWithoutContainer()

	var order []GroupingKey
	groups := make(map[GroupingKey][]*ir.Declaration)

	for _, decl := range callables {
		key, err := GroupingKeyOf(decl)
		if err != nil {
			return 0, err
		}

		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}

		groups[key] = append(groups[key], decl)
	}

	moved := 0

	for _, key := range order {
		members := groups[key]

		facade, err := g.ForKey(members[0].Symbol, key)
		if err != nil {
			return moved, err
		}

		for _, decl := range members {
			if err := g.table.SetOwner(decl.ID, facade.ID); err != nil {
				return moved, fmt.Errorf("reparenting %s: %w", decl.Symbol, err)
			}

			moved++
		}
	}

	observability.CallablesReparented.Add(float64(moved))

	return moved, nil
}
