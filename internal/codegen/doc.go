// Package codegen partitions a fully linked module into per-package
// generation units and drives each unit through the backend.
//
// Generation approach:
//   - Partition only after resolution and reparenting have completed
//   - One unit per output package, ordered by package name
//   - Owners precede the declarations they own inside a unit
//   - The same phase configuration is handed to every unit unchanged
//   - A unit generates at most once; a second request is an error
package codegen
