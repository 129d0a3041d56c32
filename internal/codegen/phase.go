package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// PhaseConfig enumerates the lowering and emission phases to run and their
// options. The core never interprets it; it is passed to the backend as is.
type PhaseConfig struct {
	// EnabledPhases is an ordered set of phase identifiers.
	EnabledPhases []string `yaml:"enabledPhases" toml:"enabled_phases"`
	// PhaseArguments maps a phase identifier to arbitrary options.
	PhaseArguments map[string]map[string]any `yaml:"phaseArguments,omitempty" toml:"phase_arguments"`
}

// NewPhaseConfig builds a validated configuration.
func NewPhaseConfig(phases []string, args map[string]map[string]any) (PhaseConfig, error) {
	cfg := PhaseConfig{EnabledPhases: phases, PhaseArguments: args}
	if err := cfg.Validate(); err != nil {
		return PhaseConfig{}, err
	}

	return cfg, nil
}

// Validate checks that EnabledPhases is a set of non-empty identifiers.
func (c PhaseConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.EnabledPhases))

	for i, id := range c.EnabledPhases {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("phase %d has an empty identifier", i)
		}

		if _, dup := seen[id]; dup {
			return fmt.Errorf("phase %q is enabled more than once", id)
		}

		seen[id] = struct{}{}
	}

	return nil
}

// IsEnabled reports whether the phase is enabled.
func (c PhaseConfig) IsEnabled(id string) bool {
	for _, p := range c.EnabledPhases {
		if p == id {
			return true
		}
	}

	return false
}

// Arguments returns the options of a phase, nil if it has none.
func (c PhaseConfig) Arguments(id string) map[string]any {
	return c.PhaseArguments[id]
}

// LoadPhaseConfig reads a phase configuration file. Files ending in .toml
// are decoded as TOML, everything else as YAML.
func LoadPhaseConfig(path string) (PhaseConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PhaseConfig{}, fmt.Errorf("failed to read phase config %s: %w", path, err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}

	return ParsePhaseConfig(data, format)
}

// ParsePhaseConfig decodes a phase configuration in the given format
// ("yaml" or "toml").
func ParsePhaseConfig(data []byte, format string) (PhaseConfig, error) {
	var cfg PhaseConfig

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return PhaseConfig{}, fmt.Errorf("failed to parse phase config YAML: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return PhaseConfig{}, fmt.Errorf("failed to parse phase config TOML: %w", err)
		}
	default:
		return PhaseConfig{}, fmt.Errorf("unknown phase config format %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return PhaseConfig{}, err
	}

	return cfg, nil
}
