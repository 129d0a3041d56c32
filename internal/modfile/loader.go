package modfile

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"irlink/internal/ir"
	"irlink/internal/resolve"
)

// LoadModule loads and parses a YAML module file from the given path.
func LoadModule(path string) (*ir.ModuleFragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module file %s: %w", path, err)
	}

	return ParseModule(data)
}

// ParseModule parses YAML data into a module fragment.
func ParseModule(data []byte) (*ir.ModuleFragment, error) {
	var mf ModuleFile

	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse module YAML: %w", err)
	}

	applyModuleDefaults(&mf)

	return BuildModule(&mf)
}

// applyModuleDefaults fills in default values for optional fields.
func applyModuleDefaults(mf *ModuleFile) {
	if mf.Version == "" {
		mf.Version = Version
	}

	for i := range mf.Files {
		f := &mf.Files[i]
		f.Path = strings.ReplaceAll(f.Path, "\\", "/")

		if f.Package == "" {
			if dir := path.Dir(f.Path); dir != "." {
				f.Package = dir
			}
		}
	}
}

// BuildModule converts a parsed module file into IR. Class members follow
// their class so that containers are registered first.
func BuildModule(mf *ModuleFile) (*ir.ModuleFragment, error) {
	if mf.Version != Version {
		return nil, fmt.Errorf("unsupported module file version %q", mf.Version)
	}

	if mf.Module == "" {
		return nil, errors.New("module name is required")
	}

	m := &ir.ModuleFragment{Name: mf.Module}

	for _, fs := range mf.Files {
		if fs.Path == "" {
			return nil, fmt.Errorf("module %s: file without path", mf.Module)
		}

		f := &ir.SourceFile{
			Path:      fs.Path,
			Package:   fs.Package,
			JvmName:   fs.JvmName,
			Multifile: fs.Multifile,
		}

		for _, ds := range fs.Decls {
			decls, err := buildDecl(f.Package, "", ds)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fs.Path, err)
			}

			f.Declarations = append(f.Declarations, decls...)
		}

		m.Files = append(m.Files, f)
	}

	return m, nil
}

func buildDecl(pkg, container string, ds DeclSpec) ([]*ir.Declaration, error) {
	kind, ok := ir.ParseKind(ds.Kind)
	if !ok || kind == ir.KindFacade {
		return nil, fmt.Errorf("declaration %q: invalid kind %q", ds.Name, ds.Kind)
	}

	if ds.Name == "" {
		return nil, fmt.Errorf("declaration without name in %q", container)
	}

	if len(ds.Members) > 0 && !kind.IsContainer() {
		return nil, fmt.Errorf("declaration %q: a %s cannot have members", ds.Name, kind)
	}

	decl := &ir.Declaration{
		Symbol: ir.Symbol{
			Package:    pkg,
			Container:  container,
			Name:       ds.Name,
			Descriptor: ds.Descriptor,
		},
		Signature: signature(kind, ds.Params, ds.Returns, ds.Supertypes),
		Origin:    ir.OriginLocal,
		Body:      &ir.Body{Statements: ds.Body},
	}

	for _, ref := range ds.References {
		sym, err := ir.ParseSymbol(ref)
		if err != nil {
			return nil, fmt.Errorf("declaration %q: %w", ds.Name, err)
		}

		decl.References = append(decl.References, sym)
	}

	out := []*ir.Declaration{decl}

	inner := ds.Name
	if container != "" {
		inner = container + "." + ds.Name
	}

	for _, member := range ds.Members {
		decls, err := buildDecl(pkg, inner, member)
		if err != nil {
			return nil, err
		}

		out = append(out, decls...)
	}

	return out, nil
}

func signature(kind ir.Kind, params []ParamSpec, returns string, supertypes []string) ir.Signature {
	sig := ir.Signature{
		Kind:       kind,
		Returns:    returns,
		Supertypes: supertypes,
	}

	for _, p := range params {
		sig.Params = append(sig.Params, ir.Param{Name: p.Name, Type: p.Type})
	}

	return sig
}

// LoadLibrary loads a YAML library file from the given path.
func LoadLibrary(path string) (*resolve.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library file %s: %w", path, err)
	}

	return ParseLibrary(data)
}

// ParseLibrary parses YAML data into a dependency library.
func ParseLibrary(data []byte) (*resolve.Library, error) {
	var lf LibraryFile

	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse library YAML: %w", err)
	}

	if lf.Name == "" {
		return nil, errors.New("library name is required")
	}

	lib := resolve.NewLibrary(lf.Name)

	for _, e := range lf.Exports {
		sym, err := ir.ParseSymbol(e.Symbol)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", lf.Name, err)
		}

		kind, ok := ir.ParseKind(e.Kind)
		if !ok {
			return nil, fmt.Errorf("library %s: %s has invalid kind %q", lf.Name, e.Symbol, e.Kind)
		}

		lib.Add(sym, signature(kind, e.Params, e.Returns, e.Supertypes))
	}

	return lib, nil
}
