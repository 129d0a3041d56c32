package codegen

import (
	"context"

	"irlink/internal/ir"
)

// Backend lowers and emits the declarations of one generation unit.
type Backend interface {
	RunPhases(ctx context.Context, cfg PhaseConfig, decls []*ir.Declaration) (*Artifact, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, cfg PhaseConfig, decls []*ir.Declaration) (*Artifact, error)

// RunPhases calls f.
func (f BackendFunc) RunPhases(ctx context.Context, cfg PhaseConfig, decls []*ir.Declaration) (*Artifact, error) {
	return f(ctx, cfg, decls)
}

// Artifact is the output of one generation unit.
type Artifact struct {
	// Package is the output package the artifact belongs to.
	Package string
	// Files are the emitted files, relative to the package directory.
	Files []GeneratedFile
}

// GeneratedFile represents one emitted file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "MainKt.listing").
	Filename string
	// Content is the emitted content.
	Content []byte
}
