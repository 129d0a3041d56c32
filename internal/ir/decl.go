package ir

import (
	"github.com/google/uuid"

	"irlink/internal/common"
)

// DeclID indexes a declaration inside the symbol table arena.
type DeclID uint32

// NoDeclID marks the absence of a declaration, e.g. an owner that has not
// been assigned yet.
const NoDeclID DeclID = 0

// IsValid reports whether the id refers to an allocated declaration.
func (id DeclID) IsValid() bool { return id != NoDeclID }

// Kind classifies a declaration.
type Kind int

const (
	KindUnknown Kind = iota
	KindClass
	KindFunction
	KindProperty
	KindFacade // synthetic container for top-level callables
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindProperty:
		return "property"
	case KindFacade:
		return "facade"
	default:
		return common.UnknownStr
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "class":
		return KindClass, true
	case "function", "fun":
		return KindFunction, true
	case "property", "val", "var":
		return KindProperty, true
	case "facade":
		return KindFacade, true
	default:
		return KindUnknown, false
	}
}

// IsCallable reports whether declarations of this kind need a container in
// the output format.
func (k Kind) IsCallable() bool {
	return k == KindFunction || k == KindProperty
}

// IsContainer reports whether declarations of this kind can own others.
func (k Kind) IsContainer() bool {
	return k == KindClass || k == KindFacade
}

// Origin tells where a declaration came from.
type Origin int

const (
	// OriginLocal - defined in the module being compiled, carries a body.
	OriginLocal Origin = iota
	// OriginExternalStub - signature-only stand-in for a foreign declaration.
	OriginExternalStub
	// OriginFacade - synthetic container created by facade reparenting.
	OriginFacade
)

// String returns a human-readable origin name.
func (o Origin) String() string {
	switch o {
	case OriginLocal:
		return "local"
	case OriginExternalStub:
		return "stub"
	case OriginFacade:
		return "facade"
	default:
		return common.UnknownStr
	}
}

// BindingState is the binding state of a Symbol.
type BindingState int

const (
	Unbound BindingState = iota
	BoundLocal
	BoundExternalStub
)

// String returns a human-readable binding state name.
func (s BindingState) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case BoundLocal:
		return "bound-local"
	case BoundExternalStub:
		return "bound-external-stub"
	default:
		return common.UnknownStr
	}
}

// Param is a single parameter of a callable signature.
type Param struct {
	Name string
	Type string
}

// Signature is the externally visible shape of a declaration.
type Signature struct {
	Kind       Kind
	Params     []Param
	Returns    string
	Supertypes []string // classes only
}

// Body is the implementation of a declaration. Stubs carry a synthetic,
// empty body that only marks them as not emittable.
type Body struct {
	Synthetic  bool
	Statements []string
}

// IsEmpty reports whether the body has no statements.
func (b *Body) IsEmpty() bool {
	return b == nil || len(b.Statements) == 0
}

// FacadeInfo describes a synthetic facade container.
type FacadeInfo struct {
	// Key is the grouping key the facade was derived from.
	Key string
	// ID is derived deterministically from Key.
	ID uuid.UUID
	// Multifile is true when the facade collects parts of several files.
	Multifile bool
}

// Declaration is a function, class, property or facade node. Declarations
// are owned by the symbol table; other components hold pointers, never
// copies.
type Declaration struct {
	ID        DeclID
	Symbol    Symbol
	Signature Signature
	Origin    Origin
	// Body is set for local declarations and stubs (synthetic marker).
	Body *Body
	// Owner is the structural container, NoDeclID when there is none yet.
	Owner DeclID
	// Source is the originating file, nil for stubs and facades.
	Source *SourceFile
	// References lists the symbols this declaration refers to.
	References []Symbol
	// Provider names the dependency provider that supplied a stub.
	Provider string
	// Facade is set for facade containers only.
	Facade *FacadeInfo
}

// Kind is a shorthand for d.Signature.Kind.
func (d *Declaration) Kind() Kind {
	return d.Signature.Kind
}

// IsStub reports whether d is a bound external stub.
func (d *Declaration) IsStub() bool {
	return d.Origin == OriginExternalStub
}

// IsLocallyOwned reports whether d is emitted by this module.
func (d *Declaration) IsLocallyOwned() bool {
	return d.Origin == OriginLocal || d.Origin == OriginFacade
}

// BindingState returns the binding state of d's symbol.
func (d *Declaration) BindingState() BindingState {
	if d.IsStub() {
		return BoundExternalStub
	}

	return BoundLocal
}

// Package returns the output package of d.
func (d *Declaration) Package() string {
	if d.Source != nil {
		return d.Source.Package
	}

	return d.Symbol.Package
}

// NewStub synthesizes a signature-only stand-in for a foreign symbol.
func NewStub(sym Symbol, sig Signature, provider string) *Declaration {
	return &Declaration{
		Symbol:    sym,
		Signature: sig,
		Origin:    OriginExternalStub,
		Body:      &Body{Synthetic: true},
		Provider:  provider,
	}
}
