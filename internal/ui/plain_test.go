package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/partsplit/internal/event"
	"github.com/bamsammich/partsplit/internal/stats"
)

func runPlain(t *testing.T, p *plainPresenter, evs ...event.Event) []string {
	t.Helper()
	events := make(chan event.Event, len(evs))
	for _, ev := range evs {
		events <- ev
	}
	close(events)
	require.NoError(t, p.Run(events))

	out := strings.TrimSpace(p.w.(*bytes.Buffer).String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func newPlain() *plainPresenter {
	return &plainPresenter{
		w:     &bytes.Buffer{},
		errW:  &bytes.Buffer{},
		stats: stats.NewCollector(),
		root:  "/repo/release",
	}
}

func TestPlainPresenterSplitLifecycle(t *testing.T) {
	lines := runPlain(t, newPlain(),
		event.Event{Type: event.ScanStarted, Path: "/repo/release"},
		event.Event{Type: event.ScanComplete, Total: 1, TotalSize: 210 << 10},
		event.Event{Type: event.SplitStarted, Path: "/repo/release/x64/app.bin", Size: 210 << 10},
		event.Event{Type: event.PartsRemoved, Removed: []string{"/repo/release/x64/app.bin.part01"}},
		event.Event{Type: event.BackupCreated, Target: "/repo/.split-backup/release/x64/app.bin"},
		event.Event{Type: event.PartWritten, Path: "/repo/release/x64/app.bin.part01", Size: 95 << 10},
		event.Event{Type: event.SplitCompleted, Path: "/repo/release/x64/app.bin", Total: 3},
	)

	require.Len(t, lines, 6)
	assert.Equal(t, "found 1 oversized file (210.0 KiB)", lines[0])
	assert.Equal(t, "split x64/app.bin  210.0 KiB", lines[1])
	assert.Equal(t, "  remove app.bin.part01", lines[2])
	assert.Equal(t, "  backup -> /repo/.split-backup/release/x64/app.bin", lines[3])
	assert.Equal(t, "  write app.bin.part01  95.0 KiB", lines[4])
	assert.Equal(t, "  done x64/app.bin  3 parts", lines[5])
}

func TestPlainPresenterDryRunPrefix(t *testing.T) {
	lines := runPlain(t, newPlain(),
		event.Event{Type: event.SplitStarted, Path: "/repo/release/app.bin", Size: 10, DryRun: true},
		event.Event{Type: event.PartWritten, Path: "/repo/release/app.bin.part01", Size: 10, DryRun: true},
	)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "dry-run: "), l)
	}
}

func TestPlainPresenterSplitFailed(t *testing.T) {
	lines := runPlain(t, newPlain(),
		event.Event{Type: event.SplitFailed, Path: "/repo/release/app.bin", Error: assert.AnError},
	)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "FAILED app.bin")
	assert.Contains(t, lines[0], assert.AnError.Error())
}

func TestPlainPresenterNothingToDo(t *testing.T) {
	lines := runPlain(t, newPlain(), event.Event{Type: event.NothingToDo, Path: "/repo/release"})
	assert.Equal(t, []string{"/repo/release does not exist, nothing to do"}, lines)
}

func TestPlainPresenterProgress(t *testing.T) {
	p := newPlain()
	p.stats.SetTotals(10, 2, 1000)
	p.stats.AddBytesWritten(500)
	p.stats.AddFilesSplit(1)

	p.printProgress()
	assert.Contains(t, p.errW.(*bytes.Buffer).String(), "50% 500 B/1000 B 1/2 files")
}

func TestPlainPresenterSummary(t *testing.T) {
	collector := stats.NewCollector()
	collector.AddFilesSplit(2)
	collector.AddPartsWritten(5)

	p := &plainPresenter{stats: collector}
	s := p.Summary()
	assert.Contains(t, s, "split 2")
	assert.Contains(t, s, "parts 5")
	assert.Contains(t, s, "errors 0")
}

func TestStripRoot(t *testing.T) {
	assert.Equal(t, "a/b.bin", StripRoot("/r", "/r/a/b.bin"))
	assert.Equal(t, "a/b.bin", StripRoot("/r/", "/r/a/b.bin"))
	assert.Equal(t, "/other/b.bin", StripRoot("/r", "/other/b.bin"))
	assert.Equal(t, "/r2/b.bin", StripRoot("/r", "/r2/b.bin"))
	assert.Equal(t, "x", StripRoot("", "x"))
}
