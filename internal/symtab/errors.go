package symtab

import (
	"errors"
	"fmt"

	"irlink/internal/ir"
)

// ErrAlreadyOwned is returned by SetOwner when the declaration already has
// an owner.
var ErrAlreadyOwned = errors.New("declaration already has an owner")

// ErrUnboundSymbols is returned by stages that require resolution to have
// completed.
var ErrUnboundSymbols = errors.New("module still has unbound symbols")

// DuplicateDeclarationError reports a second declaration for a symbol that
// is already bound in an incompatible state. It indicates a frontend bug.
type DuplicateDeclarationError struct {
	Symbol   ir.Symbol
	Existing ir.BindingState
	Incoming ir.BindingState
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("duplicate declaration of %s: already %s, cannot register as %s",
		e.Symbol, e.Existing, e.Incoming)
}

// Code identifies the diagnostic category.
func (e *DuplicateDeclarationError) Code() string { return "duplicate_declaration" }

// Subject is the offending symbol.
func (e *DuplicateDeclarationError) Subject() string { return e.Symbol.String() }
