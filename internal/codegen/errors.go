package codegen

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReparented is returned by Partition when top-level callables
	// have no container yet.
	ErrNotReparented = errors.New("module has top-level callables without a container")
)

// UnsupportedGenerationKindError reports a unit kind that is not
// implemented. It is raised before any work is attempted.
type UnsupportedGenerationKindError struct {
	Kind    Kind
	Package string
}

func (e *UnsupportedGenerationKindError) Error() string {
	return fmt.Sprintf("generation unit kind %s is not supported (package %s)", e.Kind, e.Package)
}

// Code identifies the diagnostic category.
func (e *UnsupportedGenerationKindError) Code() string { return "unsupported_generation_kind" }

// Subject is the requested package.
func (e *UnsupportedGenerationKindError) Subject() string { return e.Package }

// AlreadyGeneratedError reports a second Generate call on a unit.
type AlreadyGeneratedError struct {
	Package string
	State   State
}

func (e *AlreadyGeneratedError) Error() string {
	return fmt.Sprintf("generation unit %s already generated (state %s)", e.Package, e.State)
}

// Code identifies the diagnostic category.
func (e *AlreadyGeneratedError) Code() string { return "already_generated" }

// Subject is the unit's package.
func (e *AlreadyGeneratedError) Subject() string { return e.Package }
