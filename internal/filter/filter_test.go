package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyChainIncludesAll(t *testing.T) {
	c := NewChain()
	assert.True(t, c.Match("any/file.bin", false))
	assert.True(t, c.Match("any/dir", true))
	assert.True(t, c.Empty())
}

func TestNilChain(t *testing.T) {
	var c *Chain
	assert.True(t, c.Empty())
	assert.True(t, c.Match("app.bin", false))
}

func TestExcludePattern(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("*.pdb"))

	assert.False(t, c.Match("app.pdb", false))
	assert.False(t, c.Match("win/x64/app.pdb", false))
	assert.True(t, c.Match("app.exe", false))
	assert.False(t, c.Empty())
}

func TestIncludeOverridesExclude(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddInclude("installer.pdb"))
	require.NoError(t, c.AddExclude("*.pdb"))

	assert.True(t, c.Match("installer.pdb", false))
	assert.False(t, c.Match("debug.pdb", false))
}

func TestExcludeIncludeOrder(t *testing.T) {
	// First match wins, so the later include never fires.
	c := NewChain()
	require.NoError(t, c.AddExclude("*.pdb"))
	require.NoError(t, c.AddInclude("installer.pdb"))

	assert.False(t, c.Match("installer.pdb", false))
}

func TestDirOnlyPattern(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("symbols/"))

	assert.False(t, c.Match("symbols", true))
	assert.True(t, c.Match("symbols", false))
}

func TestAnchoredPattern(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("/top.bin"))

	assert.False(t, c.Match("top.bin", false))
	assert.True(t, c.Match("sub/top.bin", false))
}
