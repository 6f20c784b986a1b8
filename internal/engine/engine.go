package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bamsammich/partsplit/internal/event"
	"github.com/bamsammich/partsplit/internal/stats"
)

// Result is the outcome of a split run.
type Result struct {
	Candidates []Candidate
	Stats      stats.Snapshot
	Err        error
}

// Run executes a split run, blocking until complete. Candidates are
// processed one at a time, largest first; the first error stops the run.
func Run(ctx context.Context, cfg Config) Result {
	cfg, err := cfg.resolve()
	if err != nil {
		return Result{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Result{Err: err}
	}

	r := &runner{cfg: cfg, ctx: ctx}
	candidates, err := r.plan()
	if err == nil {
		err = r.execute(candidates)
	}
	return Result{
		Candidates: candidates,
		Stats:      cfg.Stats.Snapshot(),
		Err:        err,
	}
}

type runner struct {
	ctx context.Context //nolint:containedctx // scoped to one Run call
	cfg Config
}

// plan discovers candidates and checks each against the part-count bound
// before anything is mutated. A missing root yields (nil, nil).
func (r *runner) plan() ([]Candidate, error) {
	cfg := r.cfg

	info, err := cfg.FS.Stat(cfg.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("root directory does not exist, nothing to do", "root", cfg.Root)
			r.emit(event.Event{Type: event.NothingToDo, Path: cfg.Root})
			return nil, nil
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", cfg.Root)
	}

	r.emit(event.Event{Type: event.ScanStarted, Path: cfg.Root})

	entries, err := Walk(cfg.FS, cfg.Root, cfg.Filter, cfg.BackupRoot)
	if err != nil {
		return nil, err
	}
	candidates := SelectCandidates(entries, cfg.MaxSize, cfg.PartWidth)

	interrupted, err := findInterrupted(cfg)
	if err != nil {
		return nil, err
	}
	if len(interrupted) > 0 {
		slog.Info("found interrupted splits", "count", len(interrupted))
		candidates = append(candidates, interrupted...)
		sortCandidates(candidates)
	}

	var totalSize int64
	for _, c := range candidates {
		if n := PartCount(c.Size, cfg.ChunkSize); n > cfg.MaxParts() {
			return nil, fmt.Errorf("%w: %s needs %d parts, suffix width %d allows %d",
				ErrConfig, c.Path, n, cfg.PartWidth, cfg.MaxParts())
		}
		totalSize += c.Size
	}

	cfg.Stats.SetTotals(int64(len(entries)), int64(len(candidates)), totalSize)
	r.emit(event.Event{
		Type:      event.ScanComplete,
		Path:      cfg.Root,
		Total:     int64(len(candidates)),
		TotalSize: totalSize,
	})

	slog.Debug("scan complete",
		"root", cfg.Root,
		"files", len(entries),
		"candidates", len(candidates),
		"bytes", totalSize,
	)

	return candidates, nil
}

func (r *runner) execute(candidates []Candidate) error {
	cfg := r.cfg

	splitCfg := SplitterConfig{
		ChunkSize:  cfg.ChunkSize,
		BufferSize: cfg.BufferSize,
		PartWidth:  cfg.PartWidth,
	}
	if cfg.BWLimit > 0 {
		splitCfg.Limiter = NewBWLimiter(cfg.BWLimit, cfg.BufferSize)
	}
	splitCfg.OnPart = func(p Part) {
		cfg.Stats.AddPartsWritten(1)
		cfg.Stats.AddBytesWritten(p.Size)
		r.emit(event.Event{Type: event.PartWritten, Path: p.Path, Index: p.Index, Size: p.Size})
	}

	sp := NewSplitter(cfg.FS, splitCfg)
	defer sp.Close()

	for _, c := range candidates {
		if err := r.ctx.Err(); err != nil {
			return err
		}

		var err error
		if cfg.DryRun {
			err = r.planOne(c)
		} else {
			err = r.splitOne(sp, c)
		}
		if err != nil {
			cfg.Stats.AddFilesFailed(1)
			r.emit(event.Event{Type: event.SplitFailed, Path: c.Path, Size: c.Size, Error: err})
			return fmt.Errorf("split %s: %w", c.Path, err)
		}
	}
	return nil
}

// splitOne resets parts, moves the original to its backup, then splits
// the backup back into the original directory.
func (r *runner) splitOne(sp *Splitter, c Candidate) error {
	cfg := r.cfg
	dir, base := filepath.Dir(c.Path), filepath.Base(c.Path)

	r.emit(event.Event{Type: event.SplitStarted, Path: c.Path, Size: c.Size})

	removed, err := ResetParts(cfg.FS, dir, base, cfg.PartWidth)
	if err != nil {
		return err
	}
	if len(removed) > 0 {
		cfg.Stats.AddPartsRemoved(int64(len(removed)))
		r.emit(event.Event{Type: event.PartsRemoved, Path: c.Path, Removed: removed})
	}

	backup := c.Backup
	if backup == "" {
		backup, err = Relocate(cfg.FS, cfg.Locator(), c.Path)
		if err != nil {
			return err
		}
		cfg.Stats.AddBackups(1)
		r.emit(event.Event{Type: event.BackupCreated, Path: c.Path, Target: backup})
	} else if err := cfg.FS.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	parts, err := sp.Split(r.ctx, backup, dir, base)
	if err != nil {
		return err
	}

	cfg.Stats.AddFilesSplit(1)
	r.emit(event.Event{
		Type:  event.SplitCompleted,
		Path:  c.Path,
		Size:  c.Size,
		Total: int64(len(parts)),
	})
	return nil
}

// planOne reports what splitOne would do without touching the filesystem.
func (r *runner) planOne(c Candidate) error {
	cfg := r.cfg
	dir, base := filepath.Dir(c.Path), filepath.Base(c.Path)

	r.emit(event.Event{Type: event.SplitStarted, Path: c.Path, Size: c.Size, DryRun: true})

	existing, err := ListParts(cfg.FS, dir, base, cfg.PartWidth)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		r.emit(event.Event{Type: event.PartsRemoved, Path: c.Path, Removed: existing, DryRun: true})
	}

	backup := c.Backup
	if backup == "" {
		backup = cfg.Locator().PathFor(c.Path)
		r.emit(event.Event{Type: event.BackupCreated, Path: c.Path, Target: backup, DryRun: true})
	}

	sizes := PartSizes(c.Size, cfg.ChunkSize)
	for i, size := range sizes {
		r.emit(event.Event{
			Type:   event.PartWritten,
			Path:   filepath.Join(dir, PartName(base, i+1, cfg.PartWidth)),
			Index:  i + 1,
			Size:   size,
			DryRun: true,
		})
	}
	r.emit(event.Event{
		Type:   event.SplitCompleted,
		Path:   c.Path,
		Size:   c.Size,
		Total:  int64(len(sizes)),
		DryRun: true,
	})
	return nil
}

func (r *runner) emit(e event.Event) {
	if r.cfg.Events == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case r.cfg.Events <- e:
	case <-r.ctx.Done():
	}
}
