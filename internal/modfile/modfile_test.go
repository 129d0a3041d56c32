package modfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"irlink/internal/facade"
	"irlink/internal/ir"
	"irlink/internal/resolve"
	"irlink/internal/symtab"
)

const moduleYAML = `
module: demo
files:
  - path: app/Main.kt
    declarations:
      - kind: fun
        name: main
        references: [kotlin/String, app/Greeter.greet]
        body: ["println(Greeter().greet())"]
      - kind: class
        name: Greeter
        supertypes: [kotlin/Any]
        members:
          - kind: fun
            name: greet
            returns: kotlin/String
          - kind: class
            name: Inner
            members:
              - kind: val
                name: id
                returns: kotlin/Int
  - path: util/a.kt
    jvmName: Util
    multifile: true
    declarations:
      - kind: fun
        name: twice
        descriptor: (Int)
        params: [{name: x, type: kotlin/Int}]
        returns: kotlin/Int
`

const libraryYAML = `
name: stdlib
exports:
  - symbol: kotlin/String
    kind: class
  - symbol: kotlin/Any
    kind: class
  - symbol: kotlin/Int
    kind: class
    supertypes: [kotlin/Any]
  - symbol: kotlin/io/println(Any)
    kind: fun
    params: [{name: message, type: kotlin/Any}]
`

func TestParseModule(t *testing.T) {
	m, err := ParseModule([]byte(moduleYAML))
	require.NoError(t, err)

	assert.Equal(t, "demo", m.Name)
	require.Len(t, m.Files, 2)

	main := m.Files[0]
	assert.Equal(t, "app", main.Package, "package defaults to the file directory")
	require.Len(t, main.Declarations, 5, spew.Sdump(main.Declarations))

	var syms []string
	for _, d := range main.Declarations {
		syms = append(syms, d.Symbol.String())
	}

	assert.Equal(t, []string{
		"app/main",
		"app/Greeter",
		"app/Greeter.greet",
		"app/Greeter.Inner",
		"app/Greeter.Inner.id",
	}, syms)

	assert.Equal(t, ir.KindProperty, main.Declarations[4].Kind())
	assert.Equal(t, []string{"kotlin/Any"}, main.Declarations[1].Signature.Supertypes)
	assert.Equal(t, []ir.Symbol{
		ir.MustParseSymbol("kotlin/String"),
		ir.MustParseSymbol("app/Greeter.greet"),
	}, main.Declarations[0].References)

	util := m.Files[1]
	assert.True(t, util.Multifile)
	assert.Equal(t, "Util", util.JvmName)

	twice := util.Declarations[0]
	assert.Equal(t, "util/twice(Int)", twice.Symbol.String())
	assert.Equal(t, []ir.Param{{Name: "x", Type: "kotlin/Int"}}, twice.Signature.Params)
	assert.Equal(t, ir.OriginLocal, twice.Origin)
}

func TestParseModule_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no module", "files: []", "module name is required"},
		{"bad version", "version: \"9\"\nmodule: m", "unsupported module file version"},
		{"no path", "module: m\nfiles: [{package: a}]", "file without path"},
		{"bad kind", "module: m\nfiles: [{path: a/x.kt, declarations: [{kind: struct, name: x}]}]", "invalid kind"},
		{"facade kind", "module: m\nfiles: [{path: a/x.kt, declarations: [{kind: facade, name: x}]}]", "invalid kind"},
		{"no name", "module: m\nfiles: [{path: a/x.kt, declarations: [{kind: fun}]}]", "without name"},
		{"members on fun", "module: m\nfiles: [{path: a/x.kt, declarations: [{kind: fun, name: f, members: [{kind: fun, name: g}]}]}]", "cannot have members"},
		{"bad reference", "module: m\nfiles: [{path: a/x.kt, declarations: [{kind: fun, name: f, references: [\"a/\"]}]}]", "has no name"},
		{"bad yaml", "module: [", "failed to parse module YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModule([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseLibrary(t *testing.T) {
	lib, err := ParseLibrary([]byte(libraryYAML))
	require.NoError(t, err)

	assert.Equal(t, "library:stdlib", lib.String())
	assert.Len(t, lib.Symbols(), 4)

	sig, ok := lib.CanSupply(ir.MustParseSymbol("kotlin/io/println(Any)"))
	require.True(t, ok)
	assert.Equal(t, ir.KindFunction, sig.Kind)
	assert.Equal(t, []ir.Param{{Name: "message", Type: "kotlin/Any"}}, sig.Params)

	_, ok = lib.CanSupply(ir.MustParseSymbol("kotlin/io/println"))
	assert.False(t, ok, "descriptor is part of the identity")
}

func TestParseLibrary_Errors(t *testing.T) {
	_, err := ParseLibrary([]byte("exports: []"))
	require.ErrorContains(t, err, "library name is required")

	_, err = ParseLibrary([]byte("name: x\nexports: [{symbol: a/B, kind: blob}]"))
	require.ErrorContains(t, err, "invalid kind")

	_, err = ParseLibrary([]byte("name: x\nexports: [{symbol: \"\", kind: class}]"))
	require.ErrorContains(t, err, "empty symbol")
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()

	modPath := filepath.Join(dir, "module.yaml")
	libPath := filepath.Join(dir, "stdlib.yaml")
	require.NoError(t, os.WriteFile(modPath, []byte(moduleYAML), 0o644))
	require.NoError(t, os.WriteFile(libPath, []byte(libraryYAML), 0o644))

	m, err := LoadModule(modPath)
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Name)

	lib, err := LoadLibrary(libPath)
	require.NoError(t, err)
	assert.Len(t, lib.Symbols(), 4)

	_, err = LoadModule(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "failed to read module file")

	_, err = LoadLibrary(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "failed to read library file")
}

func linked(t *testing.T) *symtab.Table {
	t.Helper()

	m, err := ParseModule([]byte(moduleYAML))
	require.NoError(t, err)

	lib, err := ParseLibrary([]byte(libraryYAML))
	require.NoError(t, err)

	table := symtab.New()
	require.NoError(t, table.RegisterModule(m))

	_, err = resolve.ResolveAll(context.Background(), table, resolve.TypicalProviders(nil, lib))
	require.NoError(t, err)

	_, err = facade.ReparentTopLevelCallables(table)
	require.NoError(t, err)

	return table
}

func TestExport(t *testing.T) {
	table := linked(t)
	l := Export(table)

	assert.Equal(t, Version, l.Version)
	require.Len(t, l.Declarations, table.Len())

	bySym := make(map[string]LinkedDecl)
	for _, d := range l.Declarations {
		bySym[d.Symbol] = d
	}

	main := bySym["app/main"]
	assert.Equal(t, "app/MainKt", main.Owner)
	assert.Equal(t, "bound-local", main.State)
	assert.Equal(t, "app/Main.kt", main.Source)

	assert.Equal(t, "app/Greeter", bySym["app/Greeter.greet"].Owner)
	assert.Equal(t, "app/Greeter.Inner", bySym["app/Greeter.Inner.id"].Owner)

	str := bySym["kotlin/String"]
	assert.Equal(t, "stub", str.Origin)
	assert.Equal(t, "bound-external-stub", str.State)
	assert.Equal(t, "library:stdlib", str.Provider)
	assert.Empty(t, str.Owner)

	assert.Equal(t, []string{"kotlin/String"}, l.Stubs)

	require.Len(t, l.Facades, 2)
	assert.Equal(t, "app/MainKt@app/Main.kt", l.Facades[0].Key)
	assert.Equal(t, []string{"app/main"}, l.Facades[0].Members)
	assert.Equal(t, "util/Util", l.Facades[1].Key)
	assert.True(t, l.Facades[1].Multifile)
	assert.Equal(t, []string{"util/twice(Int)"}, l.Facades[1].Members)
	assert.Equal(t, facade.GroupingKey{Package: "util", Name: "Util"}.ID().String(), l.Facades[1].ID)
}

func TestExportYAML(t *testing.T) {
	table := linked(t)

	data, err := ExportYAML(table)
	require.NoError(t, err)

	var back Linkage
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, *Export(table), back)

	out := filepath.Join(t.TempDir(), "linkage.yaml")
	require.NoError(t, WriteFile(table, out))

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, data, written)
}
