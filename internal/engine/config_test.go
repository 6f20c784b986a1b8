package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "chunk equals max", mutate: func(c *Config) { c.ChunkSize = c.MaxSize }, ok: true},
		{name: "chunk above max", mutate: func(c *Config) { c.ChunkSize = c.MaxSize + 1 }},
		{name: "zero max", mutate: func(c *Config) { c.MaxSize = 0 }},
		{name: "negative chunk", mutate: func(c *Config) { c.ChunkSize = -1 }},
		{name: "zero buffer", mutate: func(c *Config) { c.BufferSize = 0 }},
		{name: "width zero", mutate: func(c *Config) { c.PartWidth = 0 }},
		{name: "width too wide", mutate: func(c *Config) { c.PartWidth = 10 }},
		{name: "negative bwlimit", mutate: func(c *Config) { c.BWLimit = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(100<<20), cfg.MaxSize)
	assert.Equal(t, int64(95<<20), cfg.ChunkSize)
	assert.Equal(t, "release", cfg.Root)
	assert.Equal(t, 2, cfg.PartWidth)
	assert.False(t, cfg.DryRun)
}

func TestMaxParts(t *testing.T) {
	assert.Equal(t, int64(9), Config{PartWidth: 1}.MaxParts())
	assert.Equal(t, int64(99), Config{PartWidth: 2}.MaxParts())
	assert.Equal(t, int64(999), Config{PartWidth: 3}.MaxParts())
}

func TestResolvePaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RepoRoot = "/work/repo/"
	cfg.BackupRoot = "/abs/backup"

	got, err := cfg.resolve()
	require.NoError(t, err)
	assert.Equal(t, "/work/repo", got.RepoRoot)
	assert.Equal(t, "/work/repo/release", got.Root)
	assert.Equal(t, "/abs/backup", got.BackupRoot)
	assert.NotNil(t, got.FS)
	assert.NotNil(t, got.Stats)
}
