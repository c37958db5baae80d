package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/jaki95/discogs-scraper/internal/browser"
	"github.com/jaki95/discogs-scraper/internal/locator"
	"github.com/jaki95/discogs-scraper/internal/pacing"
)

// headingSelector marks an entity document as rendered.
const headingSelector = "h1"

// Options tunes the Extractor.
type Options struct {
	// WaitTimeout bounds every wait for an entity heading.
	WaitTimeout time.Duration
	// MaxWebsites caps the websites of an artist. Zero means unbounded.
	MaxWebsites int
	// OnAlbum, when set, is called with the outcome of every album.
	OnAlbum func(loc string, err error)
}

// Extractor turns entity documents into records.
type Extractor struct {
	session       browser.Session
	interstitials browser.Interstitials
	pacer         pacing.Pacer
	normalizer    *locator.Normalizer
	assembler     *Assembler
	opts          Options
}

func NewExtractor(
	session browser.Session,
	interstitials browser.Interstitials,
	pacer pacing.Pacer,
	normalizer *locator.Normalizer,
	opts Options,
) *Extractor {
	return &Extractor{
		session:       session,
		interstitials: interstitials,
		pacer:         pacer,
		normalizer:    normalizer,
		assembler:     NewAssembler(),
		opts:          opts,
	}
}

// open navigates to loc and waits for its heading. It reports whether the
// heading appeared; a navigation failure is returned as an error.
func (e *Extractor) open(ctx context.Context, stage Stage, loc string) (bool, error) {
	if err := e.session.Navigate(ctx, loc); err != nil {
		return false, failure(stage, loc, ErrNavigation, err)
	}

	// Switching language reloads the document.
	if e.interstitials.DismissLanguageWarning(ctx) {
		e.pacer.Pause(ctx)
	}

	ready := true
	if err := e.session.WaitForPresence(ctx, headingSelector, e.opts.WaitTimeout); err != nil {
		slog.Warn("Timeout while loading heading", "stage", stage, "url", loc, "timeout", e.opts.WaitTimeout)
		ready = false
	}

	e.pacer.Pause(ctx)
	return ready, nil
}

func (e *Extractor) snapshot(ctx context.Context, stage Stage, loc string) (*browser.Page, error) {
	page, err := e.session.Snapshot(ctx)
	if err != nil {
		return nil, failure(stage, loc, ErrNavigation, err)
	}
	return page, nil
}
