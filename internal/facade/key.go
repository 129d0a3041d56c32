package facade

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"irlink/internal/ir"
)

// facadeNamespace seeds the name-based facade ids.
var facadeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("irlink:facade"))

// GroupingKey decides which facade a top-level callable belongs to.
type GroupingKey struct {
	// Package is the output package of the facade.
	Package string
	// Name is the simple name of the facade container.
	Name string
	// File is the source path for private facades, empty for multifile ones.
	File string
}

// String renders the key; private keys carry their file.
func (k GroupingKey) String() string {
	s := k.Name
	if k.Package != "" {
		s = k.Package + "/" + k.Name
	}

	if k.File != "" {
		s += "@" + k.File
	}

	return s
}

// Multifile reports whether several files may share the key.
func (k GroupingKey) Multifile() bool {
	return k.File == ""
}

// Symbol is the identity of the facade container for the key.
func (k GroupingKey) Symbol() ir.Symbol {
	return ir.Symbol{Package: k.Package, Name: k.Name}
}

// ID derives the stable facade id for the key.
func (k GroupingKey) ID() uuid.UUID {
	return uuid.NewSHA1(facadeNamespace, []byte(k.String()))
}

// GroupingKeyOf computes the grouping key of a top-level callable.
func GroupingKeyOf(decl *ir.Declaration) (GroupingKey, error) {
	src := decl.Source
	if src == nil {
		return GroupingKey{}, &FacadeResolutionError{Symbol: decl.Symbol, Reason: "missing source-unit metadata"}
	}

	if src.Multifile {
		if src.JvmName == "" {
			return GroupingKey{}, &FacadeResolutionError{
				Symbol: decl.Symbol,
				Reason: "multifile part " + src.Path + " has no facade name",
			}
		}

		return GroupingKey{Package: src.Package, Name: src.JvmName}, nil
	}

	name := src.JvmName
	if name == "" {
		stem := src.Stem()
		if stem == "" || stem == "." || stem == "/" {
			return GroupingKey{}, &FacadeResolutionError{Symbol: decl.Symbol, Reason: "source unit has no file name"}
		}

		name = FileClassName(stem)
	}

	return GroupingKey{Package: src.Package, Name: name, File: src.Path}, nil
}

// FileClassName turns a file stem into the name of its facade: the stem is
// sanitized into an identifier, capitalized, and suffixed with "Kt".
func FileClassName(stem string) string {
	var sb strings.Builder

	for i, r := range stem {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteRune('_')
			}

			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	name := []rune(sb.String())
	if len(name) > 0 && name[0] < unicode.MaxASCII {
		name[0] = unicode.ToUpper(name[0])
	}

	return string(name) + "Kt"
}
