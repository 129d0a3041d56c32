package resolve

import (
	"fmt"

	"irlink/internal/ir"
)

// UnresolvedSymbolError reports a referenced symbol no provider can supply.
type UnresolvedSymbolError struct {
	Symbol ir.Symbol
	// Suggestion is a similar symbol some provider does supply, if any.
	Suggestion ir.Symbol
}

func (e *UnresolvedSymbolError) Error() string {
	msg := fmt.Sprintf("unresolved symbol %s: no dependency provides it", e.Symbol)
	if !e.Suggestion.IsZero() {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}

	return msg
}

// Code identifies the diagnostic category.
func (e *UnresolvedSymbolError) Code() string { return "unresolved_symbol" }

// Subject is the offending symbol.
func (e *UnresolvedSymbolError) Subject() string { return e.Symbol.String() }
