package ir

import (
	"fmt"
	"strings"
)

// Symbol is the globally unique identity of a declaration. Two symbols are
// equal iff they denote the same logical declaration, across module
// boundaries. Symbols are comparable and are used as map keys.
type Symbol struct {
	Package    string // slash separated, e.g. "kotlin/collections"
	Container  string // enclosing class name, empty for top-level declarations
	Name       string // simple name
	Descriptor string // optional overload discriminator, e.g. "(I)V"
}

// IsZero reports whether s is the zero Symbol.
func (s Symbol) IsZero() bool {
	return s == Symbol{}
}

// String renders the symbol as "pkg/Container.name(desc)".
func (s Symbol) String() string {
	var sb strings.Builder

	if s.Package != "" {
		sb.WriteString(s.Package)
		sb.WriteByte('/')
	}

	if s.Container != "" {
		sb.WriteString(s.Container)
		sb.WriteByte('.')
	}

	sb.WriteString(s.Name)
	sb.WriteString(s.Descriptor)

	return sb.String()
}

// ParseSymbol parses the textual form produced by Symbol.String.
func ParseSymbol(text string) (Symbol, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Symbol{}, fmt.Errorf("empty symbol")
	}

	var sym Symbol

	if i := strings.IndexByte(text, '('); i >= 0 {
		sym.Descriptor = text[i:]
		text = text[:i]
	}

	if i := strings.LastIndexByte(text, '/'); i >= 0 {
		sym.Package = text[:i]
		text = text[i+1:]
	}

	if i := strings.LastIndexByte(text, '.'); i >= 0 {
		sym.Container = text[:i]
		text = text[i+1:]
	}

	if text == "" {
		return Symbol{}, fmt.Errorf("symbol %q has no name", sym.String())
	}

	sym.Name = text

	return sym, nil
}

// MustParseSymbol is like ParseSymbol but panics on malformed input. It is
// meant for tests and static tables.
func MustParseSymbol(text string) Symbol {
	sym, err := ParseSymbol(text)
	if err != nil {
		panic(err)
	}

	return sym
}
