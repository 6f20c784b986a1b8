package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/bamsammich/partsplit/internal/event"
	"github.com/bamsammich/partsplit/internal/filter"
	"github.com/bamsammich/partsplit/internal/stats"
)

// Defaults for a run. Sizes are in bytes.
const (
	DefaultRoot       = "release"
	DefaultBackupDir  = ".split-backup"
	DefaultMaxSize    = 100 << 20
	DefaultChunkSize  = 95 << 20
	DefaultBufferSize = 1 << 20
	DefaultPartWidth  = 2

	maxPartWidth = 9
)

// ErrConfig marks an invalid or inconsistent run configuration. It is
// always reported before any filesystem mutation.
var ErrConfig = errors.New("invalid configuration")

// Config describes a split run.
type Config struct {
	FS     afero.Fs // nil means the OS filesystem
	Filter *filter.Chain
	Events chan<- event.Event
	Stats  *stats.Collector

	// Root is the directory searched for oversized files. RepoRoot anchors
	// backup mirroring. Relative Root and BackupRoot resolve against RepoRoot;
	// an empty RepoRoot means the working directory.
	Root       string
	RepoRoot   string
	BackupRoot string

	MaxSize    int64 // files larger than this are split
	ChunkSize  int64 // maximum size of a part; must be <= MaxSize
	BufferSize int64 // read buffer; bounds memory per split
	BWLimit    int64 // bytes/sec, 0 = unlimited
	PartWidth  int   // digits in the .partNN suffix
	DryRun     bool
}

// DefaultConfig returns a Config populated with the standard defaults.
func DefaultConfig() Config {
	return Config{
		Root:       DefaultRoot,
		BackupRoot: DefaultBackupDir,
		MaxSize:    DefaultMaxSize,
		ChunkSize:  DefaultChunkSize,
		BufferSize: DefaultBufferSize,
		PartWidth:  DefaultPartWidth,
	}
}

// Validate checks size parameters. Errors wrap ErrConfig.
func (c Config) Validate() error {
	switch {
	case c.MaxSize <= 0:
		return fmt.Errorf("%w: max size must be positive, got %d", ErrConfig, c.MaxSize)
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfig, c.ChunkSize)
	case c.ChunkSize > c.MaxSize:
		return fmt.Errorf("%w: chunk size %d exceeds max size %d", ErrConfig, c.ChunkSize, c.MaxSize)
	case c.BufferSize <= 0:
		return fmt.Errorf("%w: buffer size must be positive, got %d", ErrConfig, c.BufferSize)
	case c.PartWidth < 1 || c.PartWidth > maxPartWidth:
		return fmt.Errorf("%w: part width must be 1..%d, got %d", ErrConfig, maxPartWidth, c.PartWidth)
	case c.BWLimit < 0:
		return fmt.Errorf("%w: bandwidth limit must not be negative", ErrConfig)
	}
	return nil
}

// MaxParts is the largest part count the configured suffix width can name.
func (c Config) MaxParts() int64 {
	n := int64(1)
	for range c.PartWidth {
		n *= 10
	}
	return n - 1
}

// Locator returns the backup locator for this configuration.
func (c Config) Locator() BackupLocator {
	return BackupLocator{RepoRoot: c.RepoRoot, BackupRoot: c.BackupRoot}
}

// resolve fills unset optional fields and makes paths absolute.
func (c Config) resolve() (Config, error) {
	if c.FS == nil {
		c.FS = afero.NewOsFs()
	}
	if c.Stats == nil {
		c.Stats = stats.NewCollector()
	}
	if c.PartWidth == 0 {
		c.PartWidth = DefaultPartWidth
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.BackupRoot == "" {
		c.BackupRoot = DefaultBackupDir
	}
	if c.RepoRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return c, fmt.Errorf("working directory: %w", err)
		}
		c.RepoRoot = wd
	}
	c.RepoRoot = filepath.Clean(c.RepoRoot)
	c.Root = absUnder(c.RepoRoot, c.Root)
	c.BackupRoot = absUnder(c.RepoRoot, c.BackupRoot)
	return c, nil
}

func absUnder(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
