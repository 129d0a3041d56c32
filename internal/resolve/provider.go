package resolve

import (
	"fmt"
	"sort"

	"irlink/internal/ir"
)

// Provider supplies signatures for symbols defined outside the module.
type Provider interface {
	CanSupply(sym ir.Symbol) (ir.Signature, bool)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(sym ir.Symbol) (ir.Signature, bool)

// CanSupply calls f.
func (f ProviderFunc) CanSupply(sym ir.Symbol) (ir.Signature, bool) {
	return f(sym)
}

// Library is a provider backed by the exported declarations of one
// separately compiled dependency.
type Library struct {
	Name    string
	Exports map[ir.Symbol]ir.Signature
}

// NewLibrary creates an empty library.
func NewLibrary(name string) *Library {
	return &Library{Name: name, Exports: make(map[ir.Symbol]ir.Signature)}
}

// Add exports sym from the library.
func (l *Library) Add(sym ir.Symbol, sig ir.Signature) {
	l.Exports[sym] = sig
}

// CanSupply reports the exported signature of sym.
func (l *Library) CanSupply(sym ir.Symbol) (ir.Signature, bool) {
	sig, ok := l.Exports[sym]
	return sig, ok
}

// String returns the library name.
func (l *Library) String() string {
	return "library:" + l.Name
}

// Symbols returns the exported symbols sorted by their textual form.
func (l *Library) Symbols() []ir.Symbol {
	out := make([]ir.Symbol, 0, len(l.Exports))
	for sym := range l.Exports {
		out = append(out, sym)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })

	return out
}

// TypicalProviders returns the conventional provider order: built-ins
// first, then dependency libraries in the order they were declared.
func TypicalProviders(builtins Provider, libs ...*Library) []Provider {
	out := make([]Provider, 0, len(libs)+1)
	if builtins != nil {
		out = append(out, builtins)
	}

	for _, lib := range libs {
		out = append(out, lib)
	}

	return out
}

// providerName is the name recorded on stubs.
func providerName(p Provider, index int) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("provider#%d", index)
}
