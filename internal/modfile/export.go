package modfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"irlink/internal/ir"
	"irlink/internal/symtab"
)

// Export captures the linkage of every declaration in table, in
// registration order, plus the sorted external stubs and the membership of
// every facade.
func Export(table *symtab.Table) *Linkage {
	l := &Linkage{Version: Version}

	for _, sym := range table.Stubs() {
		l.Stubs = append(l.Stubs, sym.String())
	}

	for _, decl := range table.Declarations() {
		ld := LinkedDecl{
			ID:       uint32(decl.ID),
			Symbol:   decl.Symbol.String(),
			Kind:     decl.Kind().String(),
			Origin:   decl.Origin.String(),
			State:    decl.BindingState().String(),
			Provider: decl.Provider,
		}

		if owner, ok := table.Get(decl.Owner); ok {
			ld.Owner = owner.Symbol.String()
		}

		if decl.Source != nil {
			ld.Source = decl.Source.Path
		}

		l.Declarations = append(l.Declarations, ld)

		if decl.Facade != nil {
			l.Facades = append(l.Facades, exportFacade(table, decl))
		}
	}

	return l
}

func exportFacade(table *symtab.Table, decl *ir.Declaration) LinkedGroup {
	g := LinkedGroup{
		Key:       decl.Facade.Key,
		ID:        decl.Facade.ID.String(),
		Multifile: decl.Facade.Multifile,
		Members:   []string{},
	}

	for _, m := range table.Members(decl.ID) {
		g.Members = append(g.Members, m.Symbol.String())
	}

	return g
}

// ExportYAML renders the linkage of table as YAML.
func ExportYAML(table *symtab.Table) ([]byte, error) {
	return yaml.Marshal(Export(table))
}

// WriteFile writes the linkage of table to the given path.
func WriteFile(table *symtab.Table, path string) error {
	data, err := ExportYAML(table)
	if err != nil {
		return fmt.Errorf("failed to marshal linkage: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write linkage file %s: %w", path, err)
	}

	return nil
}
