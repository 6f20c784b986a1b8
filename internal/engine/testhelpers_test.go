package engine

import (
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/bamsammich/partsplit/internal/event"
)

// patterned returns size bytes of a non-repeating-per-chunk pattern so
// misordered or duplicated parts change the digest.
func patterned(size int64) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte((i*31 + i/251) % 256)
	}
	return data
}

func writeSized(t *testing.T, fsys afero.Fs, path string, size int64) []byte {
	t.Helper()
	data := patterned(size)
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, data, 0o644))
	return data
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// concatParts reads parts in the given order and returns their
// concatenation, the way the external merge recipe would.
func concatParts(t *testing.T, fsys afero.Fs, parts []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, p := range parts {
		f, err := fsys.Open(p)
		require.NoError(t, err)
		_, err = io.Copy(&buf, f)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}
	return buf.Bytes()
}

func fileSize(t *testing.T, fsys afero.Fs, path string) int64 {
	t.Helper()
	info, err := fsys.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

func exists(fsys afero.Fs, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// snapshotTree records every path and file size under root.
func snapshotTree(t *testing.T, fsys afero.Fs, root string) map[string]int64 {
	t.Helper()
	snap := make(map[string]int64)
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			snap[path] = -1
		} else {
			snap[path] = info.Size()
		}
		return nil
	})
	require.NoError(t, err)
	return snap
}

func listNames(t *testing.T, fsys afero.Fs, dir string) []string {
	t.Helper()
	infos, err := afero.ReadDir(fsys, dir)
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names
}

// memConfig returns a config over an in-memory filesystem rooted at
// /repo with KiB-scale sizes (ceiling 100K, chunk 95K, buffer 4K).
func memConfig() (Config, afero.Fs) {
	fsys := afero.NewMemMapFs()
	cfg := DefaultConfig()
	cfg.FS = fsys
	cfg.RepoRoot = "/repo"
	cfg.MaxSize = 100 << 10
	cfg.ChunkSize = 95 << 10
	cfg.BufferSize = 4 << 10
	return cfg, fsys
}

// collectEvents returns a channel for Config.Events and a func that
// closes it and returns everything received.
func collectEvents(t *testing.T) (chan<- event.Event, func() []event.Event) {
	t.Helper()
	ch := make(chan event.Event, 1024)
	return ch, func() []event.Event {
		close(ch)
		var out []event.Event
		for e := range ch {
			out = append(out, e)
		}
		return out
	}
}

func eventTypes(events []event.Event) []event.Type {
	types := make([]event.Type, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
