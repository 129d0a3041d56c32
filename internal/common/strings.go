package common

import "path"

// UnknownStr is the String() fallback for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the last segment of a slash-separated package path, or ""
// for the root package.
func PkgAlias(pkg string) string {
	if pkg == "" {
		return ""
	}

	return path.Base(pkg)
}
