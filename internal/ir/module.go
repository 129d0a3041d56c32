package ir

import (
	"path"
	"strings"
)

// SourceFile is one source unit of a module fragment together with the
// metadata that decides which facade its top-level callables land in.
type SourceFile struct {
	// Path is the file path as reported by the frontend.
	Path string
	// Package is the slash separated output package.
	Package string
	// JvmName overrides the facade class name.
	JvmName string
	// Multifile marks the file as one part of a multifile facade.
	Multifile bool
	// Declarations are the top-level declarations in source order. Members
	// of classes follow their class.
	Declarations []*Declaration
}

// Stem returns the file name without directory and extension.
func (f *SourceFile) Stem() string {
	base := path.Base(strings.ReplaceAll(f.Path, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}

	return base
}

// ModuleFragment is the root collection of declarations considered by one
// compilation pass.
type ModuleFragment struct {
	Name  string
	Files []*SourceFile
}

// Declarations returns every declaration of the fragment in file order.
func (m *ModuleFragment) Declarations() []*Declaration {
	var out []*Declaration
	for _, f := range m.Files {
		out = append(out, f.Declarations...)
	}

	return out
}

// Contains reports whether f is one of the fragment's files.
func (m *ModuleFragment) Contains(f *SourceFile) bool {
	for _, own := range m.Files {
		if own == f {
			return true
		}
	}

	return false
}
