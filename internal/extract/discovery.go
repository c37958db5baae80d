package extract

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jaki95/discogs-scraper/internal/browser"
	"github.com/jaki95/discogs-scraper/internal/locator"
	"github.com/jaki95/discogs-scraper/internal/pacing"
)

// ArtistPath is the shape of an artist entity link.
var ArtistPath = regexp.MustCompile(`/artist/`)

// DiscoverOptions describes where entity links live on a listing page.
type DiscoverOptions struct {
	// Sections are independent containers scanned in order.
	Sections []string
	// LinkSelector matches candidate links inside a section.
	LinkSelector string
	// PathPattern must match the normalized link path.
	PathPattern *regexp.Regexp
	// Cap bounds the number of links returned.
	Cap int
}

// Discoverer collects entity links from a listing page.
type Discoverer struct {
	session       browser.Session
	interstitials browser.Interstitials
	pacer         pacing.Pacer
	normalizer    *locator.Normalizer
	waitTimeout   time.Duration
}

func NewDiscoverer(
	session browser.Session,
	interstitials browser.Interstitials,
	pacer pacing.Pacer,
	normalizer *locator.Normalizer,
	waitTimeout time.Duration,
) *Discoverer {
	return &Discoverer{
		session:       session,
		interstitials: interstitials,
		pacer:         pacer,
		normalizer:    normalizer,
		waitTimeout:   waitTimeout,
	}
}

// Discover loads the listing page and returns up to opts.Cap unique entity
// locators. An error wrapping ErrListingUnavailable means the page never
// rendered its first section, not that it holds no entities.
func (d *Discoverer) Discover(ctx context.Context, listing string, opts DiscoverOptions) ([]string, error) {
	if len(opts.Sections) == 0 {
		return nil, fmt.Errorf("no listing sections configured")
	}

	slog.Info("Loading listing page", "url", listing)
	if err := d.session.Navigate(ctx, listing); err != nil {
		return nil, failure(StageListing, listing, ErrListingUnavailable, err)
	}

	if d.interstitials.DismissConsent(ctx, d.waitTimeout) {
		d.pacer.Pause(ctx)
	}

	if err := d.session.WaitForPresence(ctx, opts.Sections[0], d.waitTimeout); err != nil {
		slog.Warn("Listing sections never appeared", "url", listing, "timeout", d.waitTimeout)
		return nil, failure(StageListing, listing, ErrListingUnavailable, err)
	}
	slog.Info("Listing sections loaded", "url", listing)

	page, err := d.session.Snapshot(ctx)
	if err != nil {
		return nil, failure(StageListing, listing, ErrListingUnavailable, err)
	}

	links := CollectLinks(page, d.normalizer, opts, locator.NewSet(opts.Cap))
	slog.Info("Discovered entities", "count", links.Len(), "limit", opts.Cap)
	return links.Items(), nil
}

// CollectLinks scans the sections of page in order and adds normalized entity
// links to links until it is full. The same set may be threaded through
// several pages.
func CollectLinks(page *browser.Page, n *locator.Normalizer, opts DiscoverOptions, links *locator.Set) *locator.Set {
	for _, section := range opts.Sections {
		if links.Full() {
			break
		}
		collectSection(page, n, section, opts, links)
	}
	return links
}

func collectSection(page *browser.Page, n *locator.Normalizer, section string, opts DiscoverOptions, links *locator.Set) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Error collecting links from section", "section", section, "error", fmt.Sprint(r))
		}
	}()

	container, ok := page.FindOne(section)
	if !ok {
		slog.Debug("Listing section not found", "section", section)
		return
	}

	before := links.Len()
	container.Find(opts.LinkSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		addLink(a, n, opts.PathPattern, links)
		return !links.Full()
	})
	slog.Debug("Collected section links", "section", section, "added", links.Len()-before)
}

// addLink normalizes the target of a and adds it to links when it has the
// expected shape.
func addLink(a *goquery.Selection, n *locator.Normalizer, shape *regexp.Regexp, links *locator.Set) bool {
	href, ok := browser.Attr(a, "href")
	if !ok || href == "" {
		return false
	}
	loc, err := n.Normalize(href)
	if err != nil {
		slog.Debug("Skipping unparsable link", "href", href, "error", err)
		return false
	}
	if shape != nil && !shape.MatchString(locator.Path(loc)) {
		return false
	}
	return links.Add(loc)
}
