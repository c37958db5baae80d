package extract

import (
	"context"
	"regexp"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xpath"

	"github.com/jaki95/discogs-scraper/internal/browser"
	"github.com/jaki95/discogs-scraper/internal/domain"
)

const (
	labelLinkSelector = "a[href*='/label/']"

	// Styles are kept when minStyleLen < len < maxStyleLen.
	minStyleLen = 2
	maxStyleLen = 30
)

var (
	yearParam    = regexp.MustCompile(`year=(\d{4})`)
	yearText     = regexp.MustCompile(`\b(\d{4})\b`)
	yearInMarkup = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	labelHeadingLinks = xpath.MustCompile(`//*[contains(text(),'Label') or contains(text(),'Gravadora')]/following-sibling::*//a`)
)

// AlbumFields holds the values read from one album document.
type AlbumFields struct {
	Name        Field[string]
	ReleaseYear Field[string]
	Label       Field[string]
	Styles      Field[[]string]
	Tracks      Field[[]*domain.Track]
}

// ExtractAlbum builds the record of the album at loc. A heading timeout is
// tolerated because album pages often render usably without it.
func (e *Extractor) ExtractAlbum(ctx context.Context, loc string) (*domain.Album, error) {
	if _, err := e.open(ctx, StageAlbum, loc); err != nil {
		return nil, err
	}

	page, err := e.snapshot(ctx, StageAlbum, loc)
	if err != nil {
		return nil, err
	}

	return e.assembler.Album(loc, ReadAlbum(page)), nil
}

// ReadAlbum derives every album field from page.
func ReadAlbum(page *browser.Page) AlbumFields {
	name := headingText(page)
	fields := AlbumFields{
		Name:        name,
		ReleaseYear: releaseYear(page),
		Label:       recordLabel(page),
		Styles:      albumStyles(page),
		Tracks:      Tracklist(page, name.Value),
	}

	m := misses{}
	m.note("name", fields.Name.Found, fields.Name.Reason)
	m.note("release_year", fields.ReleaseYear.Found, fields.ReleaseYear.Reason)
	m.note("label", fields.Label.Found, fields.Label.Reason)
	m.note("styles", fields.Styles.Found, fields.Styles.Reason)
	m.note("tracks", fields.Tracks.Found, fields.Tracks.Reason)
	m.log(StageAlbum, page.Locator())

	return fields
}

func releaseYear(page *browser.Page) Field[string] {
	return firstHit(page,
		strategy[string]{name: "year-cell", run: yearFromCell},
		strategy[string]{name: "markup-scan", run: yearFromMarkup},
	)
}

func yearFromCell(p *browser.Page) (string, Miss) {
	cells, ok := labelCells(p, yearLabel)
	if !ok {
		return "", MissNotFound
	}
	a := cells.First().Find("a").First()
	if a.Length() == 0 {
		return "", MissNotFound
	}
	if href, ok := browser.Attr(a, "href"); ok {
		if m := yearParam.FindStringSubmatch(href); m != nil {
			return m[1], MissNone
		}
	}
	if m := yearText.FindStringSubmatch(browser.Text(a)); m != nil {
		return m[1], MissNone
	}
	return "", MissInvalid
}

func yearFromMarkup(p *browser.Page) (string, Miss) {
	if y := yearInMarkup.FindString(p.RawMarkup()); y != "" {
		return y, MissNone
	}
	return "", MissNotFound
}

func recordLabel(page *browser.Page) Field[string] {
	return firstHit(page,
		strategy[string]{name: "label-link", run: func(p *browser.Page) (string, Miss) {
			return firstLinkText(p.FindAll(labelLinkSelector))
		}},
		strategy[string]{name: "label-heading", run: func(p *browser.Page) (string, Miss) {
			return firstLinkText(p.XPath(labelHeadingLinks))
		}},
	)
}

func firstLinkText(links *goquery.Selection) (string, Miss) {
	if links.Length() == 0 {
		return "", MissNotFound
	}
	if txt := browser.Text(links.First()); txt != "" {
		return txt, MissNone
	}
	return "", MissEmpty
}

func albumStyles(page *browser.Page) Field[[]string] {
	return firstHit(page, strategy[[]string]{
		name: "style-cell",
		run: func(p *browser.Page) ([]string, Miss) {
			cells, ok := labelCells(p, styleLabel)
			if !ok {
				return []string{}, MissNotFound
			}
			styles := uniqueTexts(cells.First().Find("a"), func(s string) bool {
				n := utf8.RuneCountInString(s)
				return n > minStyleLen && n < maxStyleLen
			})
			if len(styles) == 0 {
				return styles, MissEmpty
			}
			return styles, MissNone
		},
	})
}
