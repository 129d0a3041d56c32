package emit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irlink/internal/codegen"
	"irlink/internal/facade"
	"irlink/internal/ir"
	"irlink/internal/symtab"
)

func sampleUnits(t *testing.T, cfg codegen.PhaseConfig) []*codegen.Unit {
	t.Helper()

	main := &ir.SourceFile{Path: "app/model/User.kt", Package: "app/model"}
	main.Declarations = []*ir.Declaration{
		{
			Symbol:    ir.MustParseSymbol("app/model/User"),
			Signature: ir.Signature{Kind: ir.KindClass, Supertypes: []string{"kotlin/Any"}},
			Body:      &ir.Body{},
		},
		{
			Symbol:    ir.MustParseSymbol("app/model/User.rename"),
			Signature: ir.Signature{Kind: ir.KindFunction, Params: []ir.Param{{Name: "to", Type: "kotlin/String"}}, Returns: "app/model/User"},
			Body:      &ir.Body{Statements: []string{"return copy(name = to)"}},
		},
		{
			Symbol:    ir.MustParseSymbol("app/model/User.name"),
			Signature: ir.Signature{Kind: ir.KindProperty, Returns: "kotlin/String"},
			Body:      &ir.Body{},
		},
		{
			Symbol:    ir.MustParseSymbol("app/model/defaultUser"),
			Signature: ir.Signature{Kind: ir.KindFunction, Returns: "app/model/User"},
			Body:      &ir.Body{Statements: []string{"return User(\"guest\")"}},
		},
	}

	m := &ir.ModuleFragment{Name: "m", Files: []*ir.SourceFile{main}}

	table := symtab.New()
	require.NoError(t, table.RegisterModule(m))

	_, err := facade.ReparentTopLevelCallables(table)
	require.NoError(t, err)

	factory, err := codegen.NewFactory(Listing{}, cfg)
	require.NoError(t, err)

	units, err := codegen.Partition(table, m, factory)
	require.NoError(t, err)

	return units
}

func TestListing_RunPhases(t *testing.T) {
	cfg := codegen.PhaseConfig{
		EnabledPhases:  []string{"lower", "emit"},
		PhaseArguments: map[string]map[string]any{"emit": {"target": "1.8", "debug": true}},
	}

	units := sampleUnits(t, cfg)
	require.Len(t, units, 1)

	art, err := units[0].Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "app/model", art.Package)
	require.Len(t, art.Files, 2)
	assert.Equal(t, "User.listing", art.Files[0].Filename)
	assert.Equal(t, "UserKt.listing", art.Files[1].Filename)

	assert.Equal(t, `// Code generated by irlink. DO NOT EDIT.
// package model (app/model)
// phases: lower, emit
// emit: debug=true target=1.8

class User : kotlin/Any {
  function rename(to: kotlin/String): app/model/User
    return copy(name = to)
  property name: kotlin/String
}
`, string(art.Files[0].Content))

	id := facade.GroupingKey{Package: "app/model", Name: "UserKt", File: "app/model/User.kt"}.ID()
	assert.Equal(t, `// Code generated by irlink. DO NOT EDIT.
// package model (app/model)
// phases: lower, emit
// emit: debug=true target=1.8

facade UserKt [`+id.String()+`] {
  function defaultUser(): app/model/User
    return User("guest")
}
`, string(art.Files[1].Content))
}

func TestListing_StripBodies(t *testing.T) {
	units := sampleUnits(t, codegen.PhaseConfig{EnabledPhases: []string{PhaseStripBodies}})

	art, err := units[0].Generate(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, string(art.Files[0].Content), "return copy")
	assert.NotContains(t, string(art.Files[1].Content), "guest")
	assert.Contains(t, string(art.Files[0].Content), "// phases: strip-bodies\n")
}

func TestListing_NoPhases(t *testing.T) {
	units := sampleUnits(t, codegen.PhaseConfig{})

	art, err := units[0].Generate(context.Background())
	require.NoError(t, err)

	assert.Contains(t, string(art.Files[0].Content), "// package model (app/model)\n\nclass User")
}

func TestListing_Errors(t *testing.T) {
	orphan := &ir.Declaration{
		ID:        1,
		Symbol:    ir.MustParseSymbol("app/f"),
		Signature: ir.Signature{Kind: ir.KindFunction},
	}

	_, err := Listing{}.RunPhases(context.Background(), codegen.PhaseConfig{}, []*ir.Declaration{orphan})
	require.ErrorContains(t, err, "top-level function has no container")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cls := &ir.Declaration{ID: 1, Symbol: ir.MustParseSymbol("app/C"), Signature: ir.Signature{Kind: ir.KindClass}}

	_, err = Listing{}.RunPhases(ctx, codegen.PhaseConfig{}, []*ir.Declaration{cls})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()

	artifacts := []*codegen.Artifact{
		{Package: "app", Files: []codegen.GeneratedFile{{Filename: "MainKt.listing", Content: []byte("main")}}},
		{Package: "app/model", Files: []codegen.GeneratedFile{
			{Filename: "User.listing", Content: []byte("user")},
			{Filename: "UserKt.listing", Content: []byte("facade")},
		}},
	}

	written, err := WriteFiles(artifacts, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "app", "MainKt.listing"),
		filepath.Join(dir, "app", "model", "User.listing"),
		filepath.Join(dir, "app", "model", "UserKt.listing"),
	}, written)

	content, err := os.ReadFile(filepath.Join(dir, "app", "model", "UserKt.listing"))
	require.NoError(t, err)
	assert.Equal(t, "facade", string(content))
}

func TestWriteFiles_Error(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "app")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := WriteFiles([]*codegen.Artifact{{Package: "app", Files: []codegen.GeneratedFile{{Filename: "a"}}}}, dir)
	require.ErrorContains(t, err, "creating output directory")
}
