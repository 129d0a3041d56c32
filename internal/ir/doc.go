// Package ir holds the linked intermediate representation shared by every
// stage of the bridge between the frontend and the backend.
//
// Declarations live in an arena owned by the symbol table (see package
// symtab) and refer to each other by DeclID. A Symbol is the stable,
// cross-module identity of a declaration; it exists before the declaration
// is bound and stays the same after the declaration is reparented.
package ir
