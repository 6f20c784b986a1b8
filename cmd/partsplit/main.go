package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/partsplit/internal/config"
	"github.com/bamsammich/partsplit/internal/engine"
	"github.com/bamsammich/partsplit/internal/event"
	"github.com/bamsammich/partsplit/internal/filter"
	"github.com/bamsammich/partsplit/internal/stats"
	"github.com/bamsammich/partsplit/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "string" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

// options holds the raw flag values of the root command.
type options struct {
	maxSize    string
	chunkSize  string
	bufferSize string
	bwLimit    string
	backupDir  string
	repoRoot   string
	filterFile string
	logFile    string
	dryRun     bool
	verbose    bool
	quiet      bool
	version    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

//nolint:funlen // flag registration
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	chain := filter.NewChain()

	rootCmd := &cobra.Command{
		Use:   "partsplit [flags] [root]",
		Short: "Split oversized build artifacts into fixed-size part files",
		Long: `partsplit finds files under the release root that are larger than the
size ceiling, moves each original into a mirrored backup tree, and writes
it back as name.part01, name.part02, ... each no larger than the chunk size.

Concatenating the parts in order reproduces the original byte for byte;
see "partsplit recipe".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(stdout, "partsplit %s\n", version)
				return nil
			}
			return runSplit(cmd, args, &opts, chain, stdout, stderr)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.version, "version", false, "print version and exit")
	flags.StringVar(&opts.maxSize, "max-size", "100M", "split files larger than SIZE")
	flags.StringVar(&opts.chunkSize, "chunk-size", "95M", "maximum size of each part (must not exceed --max-size)")
	flags.StringVar(&opts.bufferSize, "buffer-size", "1M", "read buffer size; bounds memory use")
	flags.StringVar(&opts.bwLimit, "bwlimit", "", "limit split throughput (e.g. 50M per second)")
	flags.StringVar(&opts.backupDir, "backup-dir", engine.DefaultBackupDir, "where originals are moved (relative to --repo-root)")
	flags.StringVar(&opts.repoRoot, "repo-root", "", "repository root anchoring the backup tree (default: working directory)")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "report what would be split without touching any file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	flags.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")

	// Filter flags use a custom pflag.Value to preserve CLI ordering.
	flags.Var(&filterFlag{chain: chain}, "exclude", "exclude files matching PATTERN (repeatable)")
	flags.Var(&filterFlag{chain: chain, include: true}, "include", "include files matching PATTERN (repeatable)")
	flags.StringVar(&opts.filterFile, "filter", "", "read filter rules from FILE")
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "exclude" || f.Name == "include" {
			f.NoOptDefVal = ""
		}
	})

	rootCmd.AddCommand(newRecipeCmd())
	rootCmd.AddCommand(newDocsCmd())
	return rootCmd
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: CLI entry point wires config, logging, and reporting
func runSplit(
	cmd *cobra.Command,
	args []string,
	opts *options,
	chain *filter.Chain,
	stdout, stderr io.Writer,
) error {
	// Load optional config file.
	fileCfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "error", err)
	}
	root := applyConfigDefaults(cmd, fileCfg.Defaults, opts)
	if len(args) == 1 {
		root = args[0]
	}
	ui.ApplyTheme(fileCfg.Theme)

	// Configure logging.
	logLevel := slog.LevelWarn
	if opts.verbose {
		logLevel = slog.LevelDebug
	} else if !opts.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	var logHandler slog.Handler = textHandler
	if opts.logFile != "" {
		lf, lfErr := os.Create(opts.logFile)
		if lfErr != nil {
			return fmt.Errorf("open log file: %w", lfErr)
		}
		defer lf.Close()
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	engineCfg, err := buildEngineConfig(opts, root)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	engineCfg.FS = fsys
	if opts.filterFile != "" {
		if err := chain.LoadFile(fsys, opts.filterFile); err != nil {
			return fmt.Errorf("load filter file: %w", err)
		}
	}
	if !chain.Empty() {
		engineCfg.Filter = chain
	}

	if opts.dryRun {
		slog.Info("dry run mode")
	}

	// Set up context with signal handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)
	engineCfg.Stats = collector
	engineCfg.Events = events

	// When --log is set, tee events through a logging goroutine that
	// writes structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if opts.logFile != "" {
		presenterEvents = ui.TeeToLog(logger, events)
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:    stdout,
		ErrWriter: stderr,
		Stats:     collector,
		Root:      resolveRoot(engineCfg.RepoRoot, engineCfg.Root),
		IsTTY:     stderr == io.Writer(os.Stderr) && ui.IsTTY(os.Stderr.Fd()),
		Quiet:     opts.quiet,
		DryRun:    opts.dryRun,
	})

	slog.Debug("starting split",
		"root", engineCfg.Root,
		"backup", engineCfg.BackupRoot,
		"max_size", engineCfg.MaxSize,
		"chunk_size", engineCfg.ChunkSize,
		"buffer_size", engineCfg.BufferSize,
		"dry_run", engineCfg.DryRun,
	)

	// Presenter in background, engine in foreground.
	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := engine.Run(ctx, engineCfg)
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
	}

	if !opts.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(stderr, summary)
		}
	}

	if result.Err != nil {
		slog.Error("split failed", "error", result.Err)
		if errors.Is(result.Err, engine.ErrConfig) {
			return &exitError{code: 2}
		}
		return &exitError{code: 1}
	}
	return nil
}

// buildEngineConfig parses size flags into an engine.Config and checks it.
func buildEngineConfig(opts *options, root string) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	cfg.Root = root
	cfg.RepoRoot = opts.repoRoot
	cfg.BackupRoot = opts.backupDir
	cfg.DryRun = opts.dryRun

	sizes := []struct {
		flag string
		val  string
		dst  *int64
	}{
		{"--max-size", opts.maxSize, &cfg.MaxSize},
		{"--chunk-size", opts.chunkSize, &cfg.ChunkSize},
		{"--buffer-size", opts.bufferSize, &cfg.BufferSize},
		{"--bwlimit", opts.bwLimit, &cfg.BWLimit},
	}
	for _, s := range sizes {
		if s.val == "" {
			continue
		}
		n, err := config.ParseSize(s.val)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", s.flag, err)
		}
		*s.dst = n
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyConfigDefaults applies config file defaults for flags not
// explicitly set on the CLI and returns the configured root.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, opts *options) string {
	root := engine.DefaultRoot
	if defaults.Root != nil {
		root = *defaults.Root
	}

	set := func(flag string, dst *string, val *string) {
		if !cmd.Flags().Changed(flag) && val != nil {
			*dst = *val
		}
	}
	set("max-size", &opts.maxSize, defaults.MaxSize)
	set("chunk-size", &opts.chunkSize, defaults.ChunkSize)
	set("buffer-size", &opts.bufferSize, defaults.BufferSize)
	set("bwlimit", &opts.bwLimit, defaults.BWLimit)
	set("backup-dir", &opts.backupDir, defaults.BackupDir)

	if !cmd.Flags().Changed("dry-run") && defaults.DryRun != nil {
		opts.dryRun = *defaults.DryRun
	}
	return root
}

// resolveRoot makes root absolute the way the engine does: relative to
// repoRoot, or to the working directory when repoRoot is empty.
func resolveRoot(repoRoot, root string) string {
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	if repoRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		repoRoot = wd
	}
	return filepath.Join(repoRoot, root)
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
