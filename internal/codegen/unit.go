package codegen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"irlink/internal/common"
	"irlink/internal/ir"
	"irlink/internal/observability"
)

// Kind is the kind of a generation unit.
type Kind int

const (
	// KindPackage emits the classes and facades of one package.
	KindPackage Kind = iota
	// KindMultifileClass would merge several facades into one artifact.
	// It is not implemented.
	KindMultifileClass
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindPackage:
		return "package"
	case KindMultifileClass:
		return "multifile-class"
	default:
		return common.UnknownStr
	}
}

// Unit is one output package. Its declaration set is fixed at creation;
// only its lifecycle state changes.
type Unit struct {
	kind    Kind
	pkg     string
	decls   []*ir.Declaration
	config  PhaseConfig
	backend Backend

	mu       sync.Mutex
	state    State
	artifact *Artifact
	err      error
}

// PackageIdentity returns the unit's output package.
func (u *Unit) PackageIdentity() string {
	return u.pkg
}

// Kind returns the unit kind.
func (u *Unit) Kind() Kind {
	return u.kind
}

// Declarations returns the declarations emitted by the unit, owners first.
func (u *Unit) Declarations() []*ir.Declaration {
	out := make([]*ir.Declaration, len(u.decls))
	copy(out, u.decls)

	return out
}

// Config returns the phase configuration handed to the backend.
func (u *Unit) Config() PhaseConfig {
	return u.config
}

// State returns the current lifecycle state.
func (u *Unit) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.state
}

// Artifact returns the emitted artifact once the unit is done.
func (u *Unit) Artifact() *Artifact {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.artifact
}

// Err returns the backend failure of a failed unit.
func (u *Unit) Err() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.err
}

// Generate runs the backend over the unit's declarations. It may be called
// once; later calls fail with AlreadyGeneratedError without touching the
// backend.
func (u *Unit) Generate(ctx context.Context) (*Artifact, error) {
	u.mu.Lock()
	if u.state != StateNotStarted {
		state := u.state
		u.mu.Unlock()

		return nil, &AlreadyGeneratedError{Package: u.pkg, State: state}
	}

	u.state = StateGenerating
	u.mu.Unlock()

	start := time.Now()
	artifact, err := u.backend.RunPhases(ctx, u.config, u.Declarations())
	observability.GenerationDuration.Observe(time.Since(start).Seconds())

	u.mu.Lock()
	defer u.mu.Unlock()

	if err != nil {
		u.state = StateFailed
		u.err = fmt.Errorf("generating package %s: %w", u.pkg, err)
		observability.UnitsGenerated.WithLabelValues(u.state.String()).Inc()

		return nil, u.err
	}

	if artifact == nil {
		artifact = &Artifact{}
	}

	if artifact.Package == "" {
		artifact.Package = u.pkg
	}

	u.state = StateDone
	u.artifact = artifact
	observability.UnitsGenerated.WithLabelValues(u.state.String()).Inc()

	return artifact, nil
}
