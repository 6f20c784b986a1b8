package ui

import (
	"io"

	"github.com/bamsammich/partsplit/internal/event"
	"github.com/bamsammich/partsplit/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     *stats.Collector
	Root      string // stripped from displayed paths
	IsTTY     bool
	Quiet     bool
	DryRun    bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{}
	}
	return &plainPresenter{
		w:      cfg.Writer,
		errW:   cfg.ErrWriter,
		stats:  cfg.Stats,
		root:   cfg.Root,
		styled: cfg.IsTTY,
		dryRun: cfg.DryRun,
	}
}
