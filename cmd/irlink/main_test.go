package main

import (
	"bytes"
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModule = `
module: demo
files:
  - path: app/Main.kt
    declarations:
      - kind: fun
        name: main
        references: [kotlin/String]
        body: ["println(\"hi\")"]
  - path: app/model/User.kt
    declarations:
      - kind: class
        name: User
        members:
          - kind: val
            name: name
            returns: kotlin/String
`

const testLibrary = `
name: stdlib
exports:
  - symbol: kotlin/String
    kind: class
`

func setFlags(t *testing.T, values map[string]string) {
	t.Helper()

	libs = nil

	for name, value := range values {
		require.NoError(t, flag.Set(name, value))
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		return path
	}

	out := filepath.Join(dir, "out")

	setFlags(t, map[string]string{
		"module":  write("module.yaml", testModule),
		"lib":     write("stdlib.yaml", testLibrary),
		"phases":  write("phases.yaml", "enabledPhases: [lower, emit]\n"),
		"out":     out,
		"dump":    filepath.Join(dir, "linkage.yaml"),
		"metrics": filepath.Join(dir, "irlink.prom"),
		"j":       "2",
	})

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	require.NoError(t, run(context.Background(), logger))

	listing, err := os.ReadFile(filepath.Join(out, "app", "MainKt.listing"))
	require.NoError(t, err)
	assert.Contains(t, string(listing), "// phases: lower, emit")
	assert.Contains(t, string(listing), "function main()")

	assert.FileExists(t, filepath.Join(out, "app", "model", "User.listing"))
	assert.FileExists(t, filepath.Join(dir, "linkage.yaml"))
	assert.FileExists(t, filepath.Join(dir, "irlink.prom"))
}

func TestRun_ReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()

	module := filepath.Join(dir, "module.yaml")
	require.NoError(t, os.WriteFile(module, []byte(`
module: broken
files:
  - path: app/Main.kt
    declarations:
      - kind: fun
        name: main
        references: [kotlin/Strng]
`), 0o644))

	lib := filepath.Join(dir, "stdlib.yaml")
	require.NoError(t, os.WriteFile(lib, []byte(testLibrary), 0o644))

	setFlags(t, map[string]string{
		"module":  module,
		"lib":     lib,
		"phases":  "",
		"out":     filepath.Join(dir, "out"),
		"dump":    "",
		"metrics": "",
	})

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	err := run(context.Background(), logger)

	require.EqualError(t, err, "kotlin/Strng: [unresolved_symbol] unresolved symbol kotlin/Strng: "+
		"no dependency provides it (did you mean kotlin/String?)")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}
