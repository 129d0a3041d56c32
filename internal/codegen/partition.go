package codegen

import (
	"fmt"
	"sort"

	"irlink/internal/ir"
	"irlink/internal/symtab"
)

// Partition splits the locally owned declarations of module into one unit
// per output package, ordered by package name. Stubs never belong to a
// unit. Resolution and reparenting must have completed.
func Partition(table *symtab.Table, module *ir.ModuleFragment, factory *Factory) ([]*Unit, error) {
	if sym, ok := table.FirstUnbound(); ok {
		return nil, fmt.Errorf("%w: %s", symtab.ErrUnboundSymbols, sym)
	}

	if pending := table.FunctionsWithoutContainer(); len(pending) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotReparented, pending[0].Symbol)
	}

	byPkg := make(map[string][]*ir.Declaration)

	for _, decl := range moduleDeclarations(table, module) {
		pkg := decl.Package()
		byPkg[pkg] = append(byPkg[pkg], decl)
	}

	pkgs := make([]string, 0, len(byPkg))
	for pkg := range byPkg {
		pkgs = append(pkgs, pkg)
	}

	sort.Strings(pkgs)

	units := make([]*Unit, 0, len(pkgs))

	for _, pkg := range pkgs {
		decls, err := ownersFirst(byPkg[pkg])
		if err != nil {
			return nil, fmt.Errorf("ordering package %s: %w", pkg, err)
		}

		units = append(units, factory.NewPackageUnit(pkg, decls))
	}

	return units, nil
}

// moduleDeclarations returns the local declarations of module plus the
// facades that own at least one of them, in registration order.
func moduleDeclarations(table *symtab.Table, module *ir.ModuleFragment) []*ir.Declaration {
	all := table.Declarations()

	facades := make(map[ir.DeclID]bool)

	for _, decl := range all {
		if decl.Origin == ir.OriginLocal && module.Contains(decl.Source) && decl.Owner.IsValid() {
			if owner, ok := table.Get(decl.Owner); ok && owner.Origin == ir.OriginFacade {
				facades[owner.ID] = true
			}
		}
	}

	var out []*ir.Declaration

	for _, decl := range all {
		switch decl.Origin {
		case ir.OriginLocal:
			if module.Contains(decl.Source) {
				out = append(out, decl)
			}
		case ir.OriginFacade:
			if facades[decl.ID] {
				out = append(out, decl)
			}
		case ir.OriginExternalStub:
		}
	}

	return out
}

// ownersFirst orders decls so that each owner precedes what it owns, keeping
// registration order otherwise.
func ownersFirst(decls []*ir.Declaration) ([]*ir.Declaration, error) {
	index := make(map[ir.DeclID]int, len(decls))
	for i, decl := range decls {
		index[decl.ID] = i
	}

	order, err := topoSort(len(decls), func(i int) []int {
		if j, ok := index[decls[i].Owner]; ok {
			return []int{j}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*ir.Declaration, len(order))
	for k, i := range order {
		out[k] = decls[i]
	}

	return out, nil
}
