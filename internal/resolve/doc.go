// Package resolve materializes stub declarations for symbols that the
// module references but does not define.
//
// Resolution pipeline:
//  1. Enumerate the unbound symbols of the symbol table
//  2. Ask each dependency provider in the caller-supplied order
//  3. The first provider that can supply a signature wins
//  4. Register a signature-only stub for the symbol
//
// A symbol no provider can supply is a fatal UnresolvedSymbolError.
package resolve
