package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jaki95/discogs-scraper/config"
	"github.com/jaki95/discogs-scraper/internal/crawl"
	"github.com/jaki95/discogs-scraper/internal/logging"
	"github.com/jaki95/discogs-scraper/internal/metrics"
	"github.com/jaki95/discogs-scraper/internal/progress"
	"github.com/jaki95/discogs-scraper/internal/storage"
)

// options holds the command-line flags. A flag only overrides the
// configuration when it was set explicitly.
type options struct {
	configPath string
	genre      string
	genreName  string
	artists    int
	albums     int
	headless   bool
	engine     string
	replayDir  string
	timeout    time.Duration
	output     string
	logLevel   string
	progress   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "discogs-scraper",
		Short:        "Extract the artists, albums and tracks of a Discogs genre",
		Long:         "Collects the most relevant artists of a Discogs genre listing and writes one JSON record per artist, with its albums and tracks, to a JSON Lines file.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, opts)
		},
	}

	bindFlags(rootCmd, opts)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:          "scrape",
			Short:        "Run a full extraction (default)",
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runScrape(cmd, opts)
			},
		},
		newDiscoverCmd(opts),
	)

	return rootCmd
}

func bindFlags(cmd *cobra.Command, opts *options) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&opts.genre, "genre", "", "genre slug of the listing page (e.g. rock)")
	flags.StringVar(&opts.genreName, "genre-name", "", "genre label stored on each record")
	flags.IntVar(&opts.artists, "artists", 0, "maximum number of artists")
	flags.IntVar(&opts.albums, "albums", 0, "maximum number of albums per artist")
	flags.BoolVar(&opts.headless, "headless", true, "run the browser without a window")
	flags.StringVar(&opts.engine, "engine", "", "browsing engine: chrome, static or replay")
	flags.StringVar(&opts.replayDir, "replay-dir", "", "directory of saved pages served by the replay engine")
	flags.DurationVar(&opts.timeout, "timeout", 0, "document readiness timeout")
	flags.StringVar(&opts.output, "output", "", "output path: file, gs://bucket/key or s3://bucket/key")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.progress, "progress", "bar", "progress output: bar or json")
}

// setup resolves the configuration and installs the logger.
func setup(cmd *cobra.Command, opts *options) (*config.Config, io.Closer, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	_, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, closer, nil
}

func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("genre") {
		cfg.Genre.Slug = opts.genre
	}
	if flags.Changed("genre-name") {
		cfg.Genre.Name = opts.genreName
	}
	if flags.Changed("artists") {
		cfg.Limits.Artists = opts.artists
	}
	if flags.Changed("albums") {
		cfg.Limits.Albums = opts.albums
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = opts.headless
	}
	if flags.Changed("engine") {
		cfg.Browser.Engine = opts.engine
	}
	if flags.Changed("replay-dir") {
		cfg.Browser.ReplayDir = opts.replayDir
	}
	if flags.Changed("timeout") {
		cfg.Browser.WaitTimeout = opts.timeout
	}
	if flags.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runScrape(cmd *cobra.Command, opts *options) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	cfg, logCloser, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	reporter, err := newProgressReporter(opts.progress, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	params, err := runParams(cfg)
	if err != nil {
		return err
	}

	target, err := storage.ParseTarget(cfg.Output.Path)
	if err != nil {
		return err
	}
	store, err := storage.Open(ctx, target, storageOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to open output %s: %w", target, err)
	}
	defer store.Close()

	slog.Info("Starting browser session", "engine", cfg.Browser.Engine, "headless", cfg.Browser.Headless)
	session, interstitials, err := newSession(cfg)
	if err != nil {
		slog.Error("Failed to start browser session", "error", err)
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("Failed to close browser session", "error", err)
		}
		slog.Info("Browser session closed")
	}()

	recorder := metrics.NewRecorder()
	discoverer, extractor, pacer, err := newExtraction(cfg, session, interstitials, recorder.ObserveAlbum)
	if err != nil {
		return err
	}

	tracker := progress.NewProgressTracker()
	tracker.AddListener(reporter.listen)

	sink := storage.ArtistFile{Storage: store, Path: target.Key}
	runner := crawl.NewRunner(discoverer, extractor, sink, pacer, tracker, recorder)

	slog.Info("Scraping genre", "genre", cfg.Genre.Name, "url", params.Listing,
		"artists", cfg.Limits.Artists, "albums", cfg.Limits.Albums)
	summary, err := runner.Run(ctx, params)
	reporter.finish()
	state := tracker.GetCurrentState()

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	if errors.Is(err, crawl.ErrNoArtists) {
		slog.Warn("No artists to process, closing", "url", params.Listing, "reason", state.Error)
		return nil
	}
	if err != nil {
		slog.Error("Run failed", "stage", state.Stage, "progress", state.Progress, "error", err)
		return err
	}

	slog.Info("Run finished",
		"discovered", summary.Discovered,
		"processed", summary.Processed,
		"failed", summary.Failed,
		"written", summary.Written,
		"interrupted", summary.Interrupted,
		"output", target.String(),
		"duration", summary.Duration.Round(time.Second),
	)
	return nil
}
