// Package facade moves top-level callables into synthetic facade
// containers, because the output format has no free-standing functions.
//
// Callables are grouped by the source file they come from. Files marked as
// parts of a multifile facade share one container named after their
// explicit facade name; every other file gets a private container named
// after the file. Container identity is derived from the grouping key, so
// asking twice for the same key yields the same declaration.
package facade
