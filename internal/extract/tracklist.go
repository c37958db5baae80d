package extract

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xpath"

	"github.com/jaki95/discogs-scraper/internal/browser"
	"github.com/jaki95/discogs-scraper/internal/domain"
)

const (
	// A cell whose text contains ':' and is shorter than durationMaxLen is
	// taken for a duration when it carries no duration class.
	durationMaxLen = 7
	// Fallback title candidates must be longer than this.
	fallbackNameMinLen = 5
	// A row naming the album itself is dropped when it is shorter than the
	// album name plus this slack.
	albumEchoSlack = 10

	titleSelector         = "span[class*='tracklistTitle']"
	fallbackTitleSelector = "td > span, td > a"
)

var (
	durationTest = fmt.Sprintf(
		"contains(@class, 'duration_') or (contains(text(), ':') and string-length(normalize-space()) < %d)",
		durationMaxLen,
	)
	trackRows     = xpath.MustCompile(fmt.Sprintf("//table[contains(@class, 'tracklist_')]//tr[.//td[%s]]", durationTest))
	durationCells = xpath.MustCompile(fmt.Sprintf(".//*[%s]", durationTest))

	numericName = regexp.MustCompile(`^\d+$`)
)

// Tracklist extracts the tracks of an album page. Rows that do not look like
// tracks are skipped without consuming a track number.
func Tracklist(page *browser.Page, albumName string) Field[[]*domain.Track] {
	return firstHit(page, strategy[[]*domain.Track]{
		name: "tracklist-table",
		run: func(p *browser.Page) ([]*domain.Track, Miss) {
			rows := p.XPath(trackRows)
			if rows.Length() == 0 {
				return []*domain.Track{}, MissNotFound
			}

			tracks := []*domain.Track{}
			number := 1
			rows.Each(func(_ int, row *goquery.Selection) {
				duration := browser.Text(p.XPathIn(row, durationCells).First())
				name := trackName(row, duration)
				if !isTrackName(name, albumName) {
					return
				}
				tracks = append(tracks, &domain.Track{
					Number:   number,
					Name:     name,
					Duration: domain.StringPtr(duration),
				})
				number++
			})

			// Numbers are assigned in scan order; the sort only guards that order.
			slices.SortStableFunc(tracks, func(a, b *domain.Track) int {
				return cmp.Compare(a.Number, b.Number)
			})

			if len(tracks) == 0 {
				return tracks, MissEmpty
			}
			return tracks, MissNone
		},
	})
}

// trackName prefers the title element of row and otherwise takes the first
// text-bearing cell that is not the duration and is long enough.
func trackName(row *goquery.Selection, duration string) string {
	if title := row.Find(titleSelector).First(); title.Length() > 0 {
		return browser.Text(title)
	}

	var name string
	row.Find(fallbackTitleSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		txt := browser.Text(s)
		if txt != "" && txt != duration && utf8.RuneCountInString(txt) > fallbackNameMinLen {
			name = txt
			return false
		}
		return true
	})
	return name
}

// isTrackName rejects empty names, bare numbers and rows that restate the
// album name.
func isTrackName(name, albumName string) bool {
	if name == "" || numericName.MatchString(name) {
		return false
	}
	if albumName != "" && strings.Contains(name, albumName) &&
		utf8.RuneCountInString(name) < utf8.RuneCountInString(albumName)+albumEchoSlack {
		return false
	}
	return true
}
