package facade

import (
	"fmt"

	"irlink/internal/ir"
)

// FacadeResolutionError reports a callable whose facade cannot be
// determined. Code generation cannot proceed for it.
type FacadeResolutionError struct {
	Symbol ir.Symbol
	Key    string
	Reason string
}

func (e *FacadeResolutionError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("facade for %s (%s) not found: %s", e.Symbol, e.Key, e.Reason)
	}

	return fmt.Sprintf("facade for %s not found: %s", e.Symbol, e.Reason)
}

// Code identifies the diagnostic category.
func (e *FacadeResolutionError) Code() string { return "facade_resolution" }

// Subject is the grouping key when known, the callable otherwise.
func (e *FacadeResolutionError) Subject() string {
	if e.Key != "" {
		return e.Key
	}

	return e.Symbol.String()
}
