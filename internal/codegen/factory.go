package codegen

import (
	"errors"

	"irlink/internal/ir"
)

// Factory creates generation units bound to one backend and one phase
// configuration, so every unit of a run sees the same configuration.
type Factory struct {
	backend Backend
	config  PhaseConfig
}

// NewFactory creates a Factory.
func NewFactory(backend Backend, config PhaseConfig) (*Factory, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Factory{backend: backend, config: config}, nil
}

// Config returns the phase configuration shared by all units.
func (f *Factory) Config() PhaseConfig {
	return f.config
}

// NewPackageUnit creates the unit of one package.
func (f *Factory) NewPackageUnit(pkg string, decls []*ir.Declaration) *Unit {
	return &Unit{
		kind:    KindPackage,
		pkg:     pkg,
		decls:   decls,
		config:  f.config,
		backend: f.backend,
	}
}

// NewMultifileClassUnit would create a unit that merges the facades of
// several grouping keys into one artifact. It is not implemented and always
// fails before doing any work.
func (f *Factory) NewMultifileClassUnit(pkg string, _ []string) (*Unit, error) {
	return nil, &UnsupportedGenerationKindError{Kind: KindMultifileClass, Package: pkg}
}
