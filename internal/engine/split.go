package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/bamsammich/partsplit/internal/platform"
)

// Part is one part file written by a Splitter.
type Part struct {
	Path  string
	Index int // 1-based
	Size  int64
}

// SplitterConfig controls a Splitter.
type SplitterConfig struct {
	ChunkSize  int64
	BufferSize int64
	PartWidth  int
	Limiter    *rate.Limiter // optional
	OnPart     func(Part)    // called after each part is in place
}

// Splitter streams a source file into sequential part files.
type Splitter struct {
	fsys afero.Fs
	cfg  SplitterConfig
	tmps *tmpRegistry
}

// NewSplitter creates a Splitter writing through fsys.
func NewSplitter(fsys afero.Fs, cfg SplitterConfig) *Splitter {
	if cfg.PartWidth == 0 {
		cfg.PartWidth = DefaultPartWidth
	}
	return &Splitter{fsys: fsys, cfg: cfg, tmps: newTmpRegistry(fsys)}
}

// Close removes any temp part files a failed split left behind.
func (s *Splitter) Close() {
	if n := s.tmps.cleanup(); n > 0 {
		slog.Debug("removed leftover temp parts", "count", n)
	}
}

// Split writes src into dir as base.part01, base.part02, ... each at most
// ChunkSize bytes. Memory use is bounded by BufferSize. A zero-byte
// source produces no parts. Each part is written to a temp file, closed,
// and renamed into place, so a part under its final name is complete.
func (s *Splitter) Split(ctx context.Context, src, dir, base string) ([]Part, error) {
	in, err := s.fsys.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", src, err)
	}
	total := info.Size()

	if limit := maxPartsFor(s.cfg.PartWidth); PartCount(total, s.cfg.ChunkSize) > limit {
		return nil, fmt.Errorf("%w: %s needs %d parts, suffix width %d allows %d",
			ErrConfig, src, PartCount(total, s.cfg.ChunkSize), s.cfg.PartWidth, limit)
	}

	var r io.Reader = in
	if s.cfg.Limiter != nil {
		r = newRateLimitedReader(ctx, in, s.cfg.Limiter)
	}

	buf := make([]byte, s.cfg.BufferSize)
	perm := info.Mode().Perm()

	var parts []Part
	for offset := int64(0); offset < total; {
		n := min(s.cfg.ChunkSize, total-offset)
		idx := len(parts) + 1

		part, err := s.writePart(ctx, r, buf, filepath.Join(dir, PartName(base, idx, s.cfg.PartWidth)), n, perm)
		if err != nil {
			return parts, err
		}
		part.Index = idx
		parts = append(parts, part)
		offset += n

		if s.cfg.OnPart != nil {
			s.cfg.OnPart(part)
		}
	}
	return parts, nil
}

func (s *Splitter) writePart(
	ctx context.Context,
	r io.Reader,
	buf []byte,
	final string,
	n int64,
	perm os.FileMode,
) (Part, error) {
	dir, name := filepath.Split(final)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s%s", name, uuid.New().String()[:8], tmpSuffix))

	s.tmps.add(tmp)
	defer func() {
		s.tmps.done(tmp)
		_ = s.fsys.Remove(tmp) // no-op once renamed
	}()

	out, err := s.fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return Part{}, fmt.Errorf("create %s: %w", tmp, err)
	}
	platform.Preallocate(out, n)

	written, err := copyBounded(ctx, out, r, buf, n)
	if err != nil {
		out.Close()
		return Part{}, fmt.Errorf("write %s: %w", final, err)
	}
	if err := out.Close(); err != nil {
		return Part{}, fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := s.fsys.Rename(tmp, final); err != nil {
		return Part{}, fmt.Errorf("rename %s -> %s: %w", tmp, final, err)
	}
	return Part{Path: final, Size: written}, nil
}

// copyBounded copies exactly n bytes from r to w, never reading more
// than len(buf) at a time. A source that ends early is an error.
func copyBounded(ctx context.Context, w io.Writer, r io.Reader, buf []byte, n int64) (int64, error) {
	var copied int64
	for copied < n {
		if err := ctx.Err(); err != nil {
			return copied, err
		}

		want := min(int64(len(buf)), n-copied)
		got, rerr := r.Read(buf[:want])
		if got > 0 {
			if _, werr := w.Write(buf[:got]); werr != nil {
				return copied, werr
			}
			copied += int64(got)
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				if copied < n {
					return copied, io.ErrUnexpectedEOF
				}
				break
			}
			return copied, rerr
		}
	}
	return copied, nil
}

func maxPartsFor(width int) int64 {
	return Config{PartWidth: width}.MaxParts()
}
