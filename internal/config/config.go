// Package config holds the emulator's build-time constants: SubgroupSize,
// MaxConcurrentWorkGroups, and the debug selector coordinates.
package config

import (
	"os"
	"strconv"

	"github.com/planetis-m/compute-sim/internal/diag"
	"gopkg.in/yaml.v3"
)

// Config controls the emulator's build-time constants.
type Config struct {
	// SubgroupSize is the compile-time lane count for every subgroup.
	// Must be in [1, 32].
	SubgroupSize int `yaml:"subgroupSize"`

	// MaxConcurrentWorkGroups bounds how many workgroups the dispatcher
	// runs at once.
	MaxConcurrentWorkGroups int `yaml:"maxConcurrentWorkGroups"`

	// DebugWorkgroupX/Y/Z and DebugSubgroupID select one subgroup whose
	// collective-op trace is printed to stderr. Negative X disables
	// that trace (the default).
	DebugWorkgroupX  int `yaml:"debugWorkgroupX"`
	DebugWorkgroupY  int `yaml:"debugWorkgroupY"`
	DebugWorkgroupZ  int `yaml:"debugWorkgroupZ"`
	DebugSubgroupID  int `yaml:"debugSubgroupID"`
}

// DefaultConfig returns the emulator's default build-time constants:
// SubgroupSize 8, MaxConcurrentWorkGroups 2, tracing disabled.
func DefaultConfig() Config {
	return Config{
		SubgroupSize:            8,
		MaxConcurrentWorkGroups: 2,
		DebugWorkgroupX:         -1,
	}
}

// Validate checks SubgroupSize and MaxConcurrentWorkGroups are within
// range, returning a *diag.ConfigError on violation.
func (c Config) Validate() error {
	if c.SubgroupSize < 1 || c.SubgroupSize > 32 {
		return &diag.ConfigError{Reason: "SubgroupSize must be in [1, 32], got " + strconv.Itoa(c.SubgroupSize)}
	}
	if c.MaxConcurrentWorkGroups < 1 {
		return &diag.ConfigError{Reason: "MaxConcurrentWorkGroups must be >= 1, got " + strconv.Itoa(c.MaxConcurrentWorkGroups)}
	}
	return nil
}

// PoolSize returns the minimum worker-pool capacity required for a
// dispatch with the given per-workgroup subgroup count:
// MaxConcurrentWorkGroups * (numSubgroups + 1) — one slot for each of
// the at-most-MaxConcurrentWorkGroups live workgroup supervisor tasks,
// plus one per subgroup it spawns. dispatch.Run is responsible for
// never letting more than MaxConcurrentWorkGroups supervisors run at
// once; this size is insufficient otherwise.
func (c Config) PoolSize(numSubgroups int) int {
	return c.MaxConcurrentWorkGroups * (numSubgroups + 1)
}

// DebugSelected reports whether the given workgroup/subgroup coordinates
// match the configured debug selector.
func (c Config) DebugSelected(wgX, wgY, wgZ, subgroupID int) bool {
	return c.DebugWorkgroupX >= 0 &&
		c.DebugWorkgroupX == wgX && c.DebugWorkgroupY == wgY && c.DebugWorkgroupZ == wgZ &&
		c.DebugSubgroupID == subgroupID
}

// Load reads a Config from a YAML file, starting from DefaultConfig so
// the file only needs to override the fields it cares about.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
