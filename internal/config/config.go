// Package config loads the irlink project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPath is where the CLI looks for a project file.
const DefaultPath = "./irlink.toml"

// Config is the content of an irlink.toml project file. Relative paths are
// resolved against the directory of the file.
type Config struct {
	Module  string   `toml:"module"`
	Libs    []string `toml:"libs"` // provider order
	Phases  string   `toml:"phases"`
	Out     string   `toml:"out"`
	Dump    string   `toml:"dump"`
	Metrics string   `toml:"metrics"` // Prometheus textfile

	FailFast       bool   `toml:"fail_fast"`
	Parallelism    int    `toml:"parallelism"`
	ResolveWorkers int    `toml:"resolve_workers"`
	Only           string `toml:"only"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Out:            "./out",
		FailFast:       true,
		Parallelism:    1,
		ResolveWorkers: 1,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.resolve(filepath.Dir(path))

	return cfg, nil
}

// Parse decodes a project file and applies defaults.
func Parse(data string) (*Config, error) {
	cfg := Config{}

	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	// fail_fast defaults to true, so only an explicit value counts
	if !md.IsDefined("fail_fast") {
		cfg.FailFast = true
	}

	if cfg.Out == "" {
		cfg.Out = "./out"
	}

	if cfg.Parallelism == 0 {
		cfg.Parallelism = 1
	}

	if cfg.ResolveWorkers == 0 {
		cfg.ResolveWorkers = 1
	}

	if cfg.Parallelism < 0 || cfg.ResolveWorkers < 0 {
		return nil, errors.New("parallelism and resolve_workers must be positive")
	}

	return &cfg, nil
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}

		return filepath.Join(dir, p)
	}

	c.Module = abs(c.Module)
	c.Phases = abs(c.Phases)
	c.Out = abs(c.Out)
	c.Dump = abs(c.Dump)
	c.Metrics = abs(c.Metrics)

	for i, lib := range c.Libs {
		c.Libs[i] = abs(lib)
	}
}
