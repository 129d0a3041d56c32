// Package pipeline is the phased generation driver.
//
// Stages run in a fixed order, each requiring the previous one to have
// completed:
//  1. Register the module fragment in the symbol table
//  2. Resolve external dependencies into stubs
//  3. Reparent top-level callables into facades
//  4. Partition into per-package generation units
//  5. Generate units, optionally in parallel
//
// Failures in stages 1-4 abort the run. Unit failures abort the run only
// in fail-fast mode; otherwise the remaining units are still attempted.
package pipeline
