package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangeSubgroupSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubgroupSize = 0
	assert.Error(t, cfg.Validate())

	cfg.SubgroupSize = 33
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroConcurrency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurrentWorkGroups = 0
	assert.Error(t, cfg.Validate())
}

func TestPoolSize(t *testing.T) {
	cfg := Config{MaxConcurrentWorkGroups: 3}
	assert.Equal(t, 3*(4+1), cfg.PoolSize(4))
}

func TestDebugSelectedMatchesExactCoordinates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DebugWorkgroupX, cfg.DebugWorkgroupY, cfg.DebugWorkgroupZ = 1, 2, 0
	cfg.DebugSubgroupID = 3

	assert.True(t, cfg.DebugSelected(1, 2, 0, 3))
	assert.False(t, cfg.DebugSelected(1, 2, 0, 4))
}

func TestDebugSelectedDisabledByDefault(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.DebugSelected(0, 0, 0, 0))
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "computesim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("subgroupSize: 16\nmaxConcurrentWorkGroups: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.SubgroupSize)
	assert.Equal(t, 4, cfg.MaxConcurrentWorkGroups)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
