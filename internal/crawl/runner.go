// Package crawl drives a run: discover artists on a genre listing, extract
// each artist depth-first, and persist the assembled records.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaki95/discogs-scraper/internal/domain"
	"github.com/jaki95/discogs-scraper/internal/extract"
	"github.com/jaki95/discogs-scraper/internal/pacing"
	"github.com/jaki95/discogs-scraper/internal/progress"
)

// Overall progress, in percent, at each stage boundary.
const (
	ProgressDiscoveryEnd  = 10
	ProgressExtractionEnd = 90
	ProgressComplete      = 100
)

type Discoverer interface {
	Discover(ctx context.Context, listing string, opts extract.DiscoverOptions) ([]string, error)
}

type Extractor interface {
	ExtractArtist(ctx context.Context, loc, genre string, albumCap int) (*domain.Artist, error)
}

// Sink persists the records of a run and reports how many were written.
type Sink interface {
	Save(ctx context.Context, artists []*domain.Artist) (int, error)
}

// Observer is notified of per-artist outcomes and of the run's duration.
type Observer interface {
	ObserveArtist(artist *domain.Artist, err error)
	ObserveRun(d time.Duration)
}

// Params are the inputs of one run.
type Params struct {
	Listing  string
	Genre    string
	Discover extract.DiscoverOptions
	AlbumCap int
}

// Summary reports what a run did.
type Summary struct {
	Discovered  int
	Processed   int
	Failed      int
	Written     int
	Interrupted bool
	Duration    time.Duration
}

// Runner owns the browsing session for the length of a run through its
// discoverer and extractor, which must share it.
type Runner struct {
	discoverer Discoverer
	extractor  Extractor
	sink       Sink
	pacer      pacing.Pacer
	tracker    *progress.ProgressTracker
	observer   Observer
}

// NewRunner builds a Runner. tracker and observer may be nil.
func NewRunner(
	discoverer Discoverer,
	extractor Extractor,
	sink Sink,
	pacer pacing.Pacer,
	tracker *progress.ProgressTracker,
	observer Observer,
) *Runner {
	if tracker == nil {
		tracker = progress.NewProgressTracker()
	}
	return &Runner{
		discoverer: discoverer,
		extractor:  extractor,
		sink:       sink,
		pacer:      pacer,
		tracker:    tracker,
		observer:   observer,
	}
}

// Run executes one run. Cancelling ctx stops the run between artists; the
// artist in flight is finished and every assembled record is still saved.
// An error wrapping ErrNoArtists means nothing was extracted or written.
func (r *Runner) Run(ctx context.Context, p Params) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}
	defer func() {
		summary.Duration = time.Since(start)
		if r.observer != nil {
			r.observer.ObserveRun(summary.Duration)
		}
	}()

	r.tracker.UpdateProgress(progress.StageDiscovering, 0, "Loading listing page")
	links, err := r.discoverer.Discover(ctx, p.Listing, p.Discover)
	if err != nil {
		slog.Error("Listing discovery failed", "stage", extract.StageListing, "url", p.Listing, "error", err)
		r.tracker.SetError(err)
		return summary, fmt.Errorf("%w: %w", ErrNoArtists, err)
	}
	summary.Discovered = len(links)
	slog.Info("Found artists", "count", len(links), "limit", p.Discover.Cap)

	if len(links) == 0 {
		slog.Warn("No valid artist URL found", "url", p.Listing)
		r.tracker.SetError(ErrNoArtists)
		return summary, ErrNoArtists
	}
	r.tracker.UpdateProgress(progress.StageDiscovering, ProgressDiscoveryEnd, fmt.Sprintf("Discovered %d artists", len(links)))

	artists := make([]*domain.Artist, 0, len(links))
	for i, loc := range links {
		if ctx.Err() != nil {
			slog.Warn("Run interrupted, saving collected artists", "remaining", len(links)-i)
			summary.Interrupted = true
			break
		}

		r.tracker.UpdateEntityProgress(progress.EntityDetails{
			Index:     i,
			Total:     len(links),
			Current:   loc,
			Processed: summary.Processed,
			Failed:    summary.Failed,
		}, ProgressDiscoveryEnd, ProgressExtractionEnd)
		slog.Info("Processing artist", "index", i+1, "total", len(links), "url", loc)

		artist, err := r.extractArtist(ctx, loc, p)
		if r.observer != nil {
			r.observer.ObserveArtist(artist, err)
		}
		if err != nil {
			summary.Failed++
			slog.Warn("Failed to extract artist", "stage", stageOf(err), "url", loc, "error", err)
		} else {
			summary.Processed++
			artists = append(artists, artist)
			slog.Info("Extracted artist", "url", loc, "albums", len(artist.Albums), "tracks", artist.TrackCount())
		}

		r.pacer.Pause(ctx)
	}

	r.tracker.UpdateProgress(progress.StageSaving, ProgressExtractionEnd, fmt.Sprintf("Saving %d artists", len(artists)))
	written, err := r.sink.Save(context.WithoutCancel(ctx), artists)
	summary.Written = written
	if err != nil {
		slog.Error("Failed to save artists", "count", len(artists), "error", err)
		r.tracker.SetError(err)
		return summary, fmt.Errorf("%w: %w", ErrSave, err)
	}

	r.tracker.UpdateProgress(progress.StageComplete, ProgressComplete, fmt.Sprintf("Saved %d artists", written))
	return summary, nil
}

// extractArtist runs one artist to completion regardless of cancellation and
// turns a panic into that artist's failure.
func (r *Runner) extractArtist(ctx context.Context, loc string, p Params) (artist *domain.Artist, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			artist = nil
			err = fmt.Errorf("unexpected failure extracting %s: %v", loc, rec)
		}
	}()
	return r.extractor.ExtractArtist(context.WithoutCancel(ctx), loc, p.Genre, p.AlbumCap)
}

func stageOf(err error) extract.Stage {
	var extractionErr *extract.ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Stage
	}
	return extract.StageArtist
}
