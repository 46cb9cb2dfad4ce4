// Package config loads the virtual machine's tuning knobs from environment
// variables: the garbage collector's growth factor and minimum heap size,
// the stress-GC switch used by the testable property in spec.md §8, and
// the instruction trace switch. Defaults match spec.md §4.5/§5 exactly;
// env vars exist to override them for testing and local tuning, not to
// change the language's defined behavior.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config is the VM's resolved runtime configuration.
type Config struct {
	// GCGrowthFactor is the heap's next_gc multiplier after a collection
	// (§4.5: next_gc = max(bytes_allocated * growth_factor, min_heap)).
	GCGrowthFactor float64 `env:"EMBER_GC_GROWTH_FACTOR" envDefault:"2"`

	// MinHeap is the floor below which next_gc never drops, in bytes.
	MinHeap int `env:"EMBER_MIN_HEAP" envDefault:"1048576"`

	// StressGC forces a collection before every single allocation, the
	// mode spec.md §8 requires to still produce correct programs.
	StressGC bool `env:"EMBER_STRESS_GC" envDefault:"false"`

	// Trace enables per-instruction disassembly tracing to stderr.
	Trace bool `env:"EMBER_TRACE" envDefault:"false"`
}

// Load reads Config from the environment, applying defaults for anything
// unset.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

// DumpYAML renders c as YAML, the "print effective config" idiom used for
// troubleshooting (wired from cmd/ember's -dump-config flag).
func DumpYAML(c Config) (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("dump config: %w", err)
	}
	return string(b), nil
}
