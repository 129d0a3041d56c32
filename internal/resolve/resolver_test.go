package resolve

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irlink/internal/ir"
	"irlink/internal/symtab"
)

func tableReferencing(t *testing.T, refs ...string) *symtab.Table {
	t.Helper()

	decl := &ir.Declaration{
		Symbol:    ir.MustParseSymbol("app/main"),
		Signature: ir.Signature{Kind: ir.KindFunction},
		Origin:    ir.OriginLocal,
		Body:      &ir.Body{Statements: []string{"return"}},
	}
	for _, r := range refs {
		decl.References = append(decl.References, ir.MustParseSymbol(r))
	}

	table := symtab.New()
	_, err := table.Register(decl)
	require.NoError(t, err)

	return table
}

func TestResolveAll_SecondProviderSupplies(t *testing.T) {
	table := tableReferencing(t, "foo/Bar")
	before := table.Len()

	first := NewLibrary("first")
	first.Add(ir.MustParseSymbol("foo/Other"), ir.Signature{Kind: ir.KindClass})

	second := NewLibrary("second")
	second.Add(ir.MustParseSymbol("foo/Bar"), ir.Signature{Kind: ir.KindClass, Supertypes: []string{"kotlin/Any"}})

	stubbed, err := ResolveAll(context.Background(), table, []Provider{first, second})
	require.NoError(t, err)
	assert.Equal(t, []ir.Symbol{ir.MustParseSymbol("foo/Bar")}, stubbed)
	assert.Equal(t, before+1, table.Len())

	stub, ok := table.Lookup(ir.MustParseSymbol("foo/Bar"))
	require.True(t, ok, spew.Sdump(table.Declarations()))
	assert.True(t, stub.IsStub())
	assert.True(t, stub.Body.Synthetic)
	assert.Equal(t, "library:second", stub.Provider)
	assert.Equal(t, []string{"kotlin/Any"}, stub.Signature.Supertypes)
	assert.Empty(t, slices.Collect(table.AllUnbound()))
}

func TestResolveAll_FirstMatchWins(t *testing.T) {
	table := tableReferencing(t, "kotlin/io/println")

	builtins := ProviderFunc(func(sym ir.Symbol) (ir.Signature, bool) {
		return ir.Signature{Kind: ir.KindFunction, Returns: "kotlin/Unit"}, sym.Package == "kotlin/io"
	})
	lib := NewLibrary("stdlib")
	lib.Add(ir.MustParseSymbol("kotlin/io/println"), ir.Signature{Kind: ir.KindFunction, Returns: "kotlin/Nothing"})

	_, err := ResolveAll(context.Background(), table, TypicalProviders(builtins, lib))
	require.NoError(t, err)

	stub, _ := table.Lookup(ir.MustParseSymbol("kotlin/io/println"))
	assert.Equal(t, "provider#0", stub.Provider)
	assert.Equal(t, "kotlin/Unit", stub.Signature.Returns)
}

func TestResolveAll_Unresolved(t *testing.T) {
	table := tableReferencing(t, "foo/Known", "foo/Missing", "foo/AlsoMissing")

	lib := NewLibrary("lib")
	lib.Add(ir.MustParseSymbol("foo/Known"), ir.Signature{Kind: ir.KindClass})

	_, err := ResolveAll(context.Background(), table, []Provider{lib})

	var unresolved *UnresolvedSymbolError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, ir.MustParseSymbol("foo/Missing"), unresolved.Symbol)
	assert.Equal(t, "unresolved_symbol", unresolved.Code())
	assert.Equal(t, "foo/Missing", unresolved.Subject())
}

func TestResolveAll_NoUnboundIsNoop(t *testing.T) {
	table := tableReferencing(t)

	stubbed, err := ResolveAll(context.Background(), table, nil)
	require.NoError(t, err)
	assert.Empty(t, stubbed)
	assert.Equal(t, 1, table.Len())
}

func TestResolveAll_ParallelIsDeterministic(t *testing.T) {
	refs := []string{"a/A", "b/B", "c/C", "d/D", "e/E", "f/F"}

	lib := NewLibrary("lib")
	for _, r := range refs {
		lib.Add(ir.MustParseSymbol(r), ir.Signature{Kind: ir.KindClass})
	}

	for range 5 {
		table := tableReferencing(t, refs...)

		stubbed, err := NewExternalDependencies(table, []Provider{lib}).
			WithWorkers(4).
			ResolveAll(context.Background())
		require.NoError(t, err)

		var got []string
		for _, sym := range stubbed {
			got = append(got, sym.String())
		}

		assert.Equal(t, refs, got)
		assert.Equal(t, refs, stubSymbols(table))
	}
}

func TestResolveAll_ParallelReportsFirstUnresolved(t *testing.T) {
	table := tableReferencing(t, "a/A", "b/Missing", "c/C", "d/Missing")

	var calls atomic.Int32
	provider := ProviderFunc(func(sym ir.Symbol) (ir.Signature, bool) {
		calls.Add(1)
		return ir.Signature{Kind: ir.KindClass}, sym.Name != "Missing"
	})

	_, err := NewExternalDependencies(table, []Provider{provider}).WithWorkers(3).ResolveAll(context.Background())

	var unresolved *UnresolvedSymbolError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "b/Missing", unresolved.Symbol.String())
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, 1, table.Len(), "no stub is registered when a pass fails")
}

func TestResolveAll_Cancelled(t *testing.T) {
	table := tableReferencing(t, "a/A")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ResolveAll(ctx, table, []Provider{ProviderFunc(func(ir.Symbol) (ir.Signature, bool) {
		return ir.Signature{}, true
	})})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLibrary_Symbols(t *testing.T) {
	lib := NewLibrary("lib")
	lib.Add(ir.MustParseSymbol("z/Z"), ir.Signature{})
	lib.Add(ir.MustParseSymbol("a/A"), ir.Signature{})

	assert.Equal(t, []ir.Symbol{ir.MustParseSymbol("a/A"), ir.MustParseSymbol("z/Z")}, lib.Symbols())
	assert.Equal(t, "library:lib", lib.String())
}

func stubSymbols(table *symtab.Table) []string {
	var out []string
	for _, decl := range table.Declarations() {
		if decl.IsStub() {
			out = append(out, decl.Symbol.String())
		}
	}

	return out
}
