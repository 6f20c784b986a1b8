package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bamsammich/partsplit/internal/event"
	"github.com/bamsammich/partsplit/internal/stats"
)

const progressInterval = 5 * time.Second

// plainPresenter writes one line per action to stdout and periodic
// progress to stderr. Planned actions in a dry run carry a "dry-run: "
// prefix.
type plainPresenter struct {
	w      io.Writer
	errW   io.Writer
	stats  *stats.Collector
	root   string
	styled bool
	dryRun bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	prefix := ""
	if ev.DryRun {
		prefix = "dry-run: "
	}
	path := StripRoot(p.root, ev.Path)

	switch ev.Type {
	case event.NothingToDo:
		fmt.Fprintf(p.w, "%s does not exist, nothing to do\n", ev.Path)
	case event.ScanComplete:
		fmt.Fprintf(p.w, "found %s oversized %s (%s)\n",
			FormatCount(ev.Total), plural(ev.Total, "file", "files"), FormatBytes(ev.TotalSize))
	case event.SplitStarted:
		fmt.Fprintf(p.w, "%ssplit %s  %s\n", prefix, path, FormatBytes(ev.Size))
	case event.PartsRemoved:
		names := make([]string, len(ev.Removed))
		for i, r := range ev.Removed {
			names[i] = filepath.Base(r)
		}
		fmt.Fprintf(p.w, "%s  remove %s\n", prefix, strings.Join(names, " "))
	case event.BackupCreated:
		fmt.Fprintf(p.w, "%s  backup -> %s\n", prefix, ev.Target)
	case event.PartWritten:
		fmt.Fprintf(p.w, "%s  write %s  %s\n", prefix, filepath.Base(ev.Path), FormatBytes(ev.Size))
	case event.SplitCompleted:
		fmt.Fprintf(p.w, "%s  done %s  %d %s\n", prefix, path, ev.Total, plural(ev.Total, "part", "parts"))
	case event.SplitFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%sFAILED %s  %s\n", prefix, path, errMsg)
	case event.ScanStarted:
		// silent in plain mode
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	if snap.BytesTotal <= 0 {
		return
	}
	pct := float64(snap.BytesWritten) / float64(snap.BytesTotal)
	fmt.Fprintf(p.errW, "progress: %s %.0f%% %s/%s %s/%s files\n",
		ProgressBar(pct, 20),
		pct*100,
		FormatBytes(snap.BytesWritten), FormatBytes(snap.BytesTotal),
		FormatCount(snap.FilesSplit), FormatCount(snap.Candidates),
	)
}

func (p *plainPresenter) Summary() string {
	s := completionSummary(p.stats.Snapshot(), p.dryRun)
	if p.styled {
		return styleSummary(s, p.stats.Snapshot().FilesFailed > 0)
	}
	return s
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// StripRoot returns path relative to root when path is below it.
func StripRoot(root, path string) string {
	if root == "" {
		return path
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	if strings.HasPrefix(path, root) {
		return path[len(root):]
	}
	return path
}
