package extract

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/jaki95/discogs-scraper/internal/browser"
	"github.com/jaki95/discogs-scraper/internal/domain"
	"github.com/jaki95/discogs-scraper/internal/locator"
)

const (
	memberLinkSelector = "a[href*='/artist/']"
	albumLinkSelector  = "a[href*='/release/'], a[href*='/master/']"
)

// AlbumPath is the shape of a release or master link.
var AlbumPath = regexp.MustCompile(`/(release|master)/`)

// ArtistFields holds the artist-level values read from one document.
type ArtistFields struct {
	Name     Field[string]
	Members  Field[[]string]
	Websites Field[[]string]
}

// ExtractArtist builds the record of the artist at loc together with up to
// albumCap of its albums. Only a navigation failure or a heading timeout
// fails the artist; every other miss degrades to an empty field.
func (e *Extractor) ExtractArtist(ctx context.Context, loc, genre string, albumCap int) (*domain.Artist, error) {
	ready, err := e.open(ctx, StageArtist, loc)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, failure(StageArtist, loc, ErrReadinessTimeout, nil)
	}

	page, err := e.snapshot(ctx, StageArtist, loc)
	if err != nil {
		return nil, err
	}

	fields := e.ReadArtist(page)
	albumLinks := AlbumLinks(page, e.normalizer, albumCap)
	slog.Info("Processing artist albums", "url", loc, "albums", len(albumLinks), "limit", albumCap)

	albums := make([]*domain.Album, 0, len(albumLinks))
	for _, albumURL := range albumLinks {
		album, err := e.ExtractAlbum(ctx, albumURL)
		if e.opts.OnAlbum != nil {
			e.opts.OnAlbum(albumURL, err)
		}
		if err != nil {
			slog.Debug("Dropping album", "stage", StageAlbum, "url", albumURL, "error", err)
		} else {
			albums = append(albums, album)
		}
		e.pacer.Pause(ctx)
	}

	return e.assembler.Artist(loc, genre, fields, albums), nil
}

// ReadArtist derives the artist-level fields from page.
func (e *Extractor) ReadArtist(page *browser.Page) ArtistFields {
	fields := ArtistFields{
		Name:     headingText(page),
		Members:  artistMembers(page),
		Websites: artistWebsites(page, e.normalizer, e.opts.MaxWebsites),
	}

	m := misses{}
	m.note("name", fields.Name.Found, fields.Name.Reason)
	m.note("members", fields.Members.Found, fields.Members.Reason)
	m.note("websites", fields.Websites.Found, fields.Websites.Reason)
	m.log(StageArtist, page.Locator())

	return fields
}

// AlbumLinks scans the whole document for release and master links and
// returns at most limit distinct normalized locators.
func AlbumLinks(page *browser.Page, n *locator.Normalizer, limit int) []string {
	links := locator.NewSet(limit)
	page.FindAll(albumLinkSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		addLink(a, n, AlbumPath, links)
		return !links.Full()
	})
	return links.Items()
}

func headingText(page *browser.Page) Field[string] {
	return firstHit(page, strategy[string]{
		name: "heading",
		run: func(p *browser.Page) (string, Miss) {
			h1, ok := p.FindOne(headingSelector)
			if !ok {
				return "", MissNotFound
			}
			txt := browser.Text(h1)
			if txt == "" {
				return "", MissEmpty
			}
			return txt, MissNone
		},
	})
}

func artistMembers(page *browser.Page) Field[[]string] {
	return firstHit(page, strategy[[]string]{
		name: "members-cell",
		run: func(p *browser.Page) ([]string, Miss) {
			cells, ok := labelCells(p, membersLabel)
			if !ok {
				return []string{}, MissNotFound
			}
			members := uniqueTexts(cells.First().Find(memberLinkSelector), nil)
			if len(members) == 0 {
				return members, MissEmpty
			}
			return members, MissNone
		},
	})
}

func artistWebsites(page *browser.Page, n *locator.Normalizer, limit int) Field[[]string] {
	return firstHit(page, strategy[[]string]{
		name: "sites-cell",
		run: func(p *browser.Page) ([]string, Miss) {
			cells, ok := labelCells(p, websitesLabel)
			if !ok {
				return []string{}, MissNotFound
			}
			sites := locator.NewSet(limit)
			cells.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				href, ok := browser.Attr(a, "href")
				if !ok || href == "" {
					return true
				}
				if abs, err := n.Resolve(href); err == nil {
					sites.Add(abs)
				}
				return !sites.Full()
			})
			if sites.Len() == 0 {
				return []string{}, MissEmpty
			}
			return sites.Items(), MissNone
		},
	})
}
