package engine

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShell(t *testing.T) {
	for _, in := range []string{"posix", "sh", "BASH"} {
		s, err := ParseShell(in)
		require.NoError(t, err)
		assert.Equal(t, ShellPOSIX, s)
	}
	s, err := ParseShell("cmd")
	require.NoError(t, err)
	assert.Equal(t, ShellWindows, s)

	_, err = ParseShell("fish")
	assert.Error(t, err)
}

func TestDiscoverPartSets(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeSized(t, fsys, "/rel/b/tool.exe.part01", 5)
	writeSized(t, fsys, "/rel/b/tool.exe.part03", 2)
	writeSized(t, fsys, "/rel/a/app.bin.part02", 10)
	writeSized(t, fsys, "/rel/a/app.bin.part01", 10)
	writeSized(t, fsys, "/rel/a/app.bin", 20)
	writeSized(t, fsys, "/rel/a/zz.pak.part01", 4)

	sets, err := DiscoverPartSets(fsys, "/rel", 2)
	require.NoError(t, err)
	require.Len(t, sets, 3)

	assert.Equal(t, "/rel/a", sets[0].Dir)
	assert.Equal(t, "app.bin", sets[0].Base)
	assert.Equal(t, []string{"/rel/a/app.bin.part01", "/rel/a/app.bin.part02"}, sets[0].Parts)
	assert.Equal(t, int64(20), sets[0].Size)
	assert.True(t, sets[0].Complete())

	assert.Equal(t, "zz.pak", sets[1].Base)

	assert.Equal(t, "tool.exe", sets[2].Base)
	assert.Equal(t, []int{2}, sets[2].Missing)
	assert.False(t, sets[2].Complete())
}

func TestDiscoverPartSetsDuplicateSequence(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeSized(t, fsys, "/r/a.bin.part01", 8)
	writeSized(t, fsys, "/r/a.bin.PART01", 8)
	writeSized(t, fsys, "/r/a.bin.part02", 3)

	sets, err := DiscoverPartSets(fsys, "/r", 2)
	require.NoError(t, err)
	require.Len(t, sets, 1)

	set := sets[0]
	assert.Equal(t, "a.bin", set.Base)
	assert.Empty(t, set.Missing)
	assert.Equal(t, []int{1}, set.Duplicates)
	assert.Len(t, set.Parts, 3)
	assert.False(t, set.Complete(), "two files claiming part 1 must not yield a recipe")
}

func TestMergeRecipe(t *testing.T) {
	set := PartSet{
		Dir:   "/rel/my dir",
		Base:  "app.bin",
		Parts: []string{"/rel/my dir/app.bin.part01", "/rel/my dir/app.bin.part02"},
	}

	assert.Equal(t,
		`cat '/rel/my dir/app.bin.part01' '/rel/my dir/app.bin.part02' > '/rel/my dir/app.bin'`,
		MergeRecipe(set, ShellPOSIX))
	assert.Equal(t,
		`copy /b "/rel/my dir/app.bin.part01"+"/rel/my dir/app.bin.part02" "/rel/my dir/app.bin"`,
		MergeRecipe(set, ShellWindows))

	plain := PartSet{Dir: "/r", Base: "a.bin", Parts: []string{"/r/a.bin.part01"}}
	assert.Equal(t, "cat /r/a.bin.part01 > /r/a.bin", MergeRecipe(plain, ShellPOSIX))
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "plain", shellQuote("plain"))
	assert.Equal(t, "''", shellQuote(""))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
}

func TestRecipeAfterRun(t *testing.T) {
	cfg, fsys := memConfig()
	data := writeSized(t, fsys, "/repo/release/app.bin", 210*kib)
	require.NoError(t, Run(context.Background(), cfg).Err)

	sets, err := DiscoverPartSets(fsys, "/repo/release", 2)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.True(t, sets[0].Complete())
	assert.Equal(t, int64(210*kib), sets[0].Size)
	assert.Equal(t, digest(data), digest(concatParts(t, fsys, sets[0].Parts)))
}
