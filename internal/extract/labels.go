package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gosimple/unidecode"

	"github.com/jaki95/discogs-scraper/internal/browser"
)

// Header-cell patterns are matched against lower-cased, accent-folded text so
// that localized page variants resolve to the same field.
var (
	membersLabel  = regexp.MustCompile(`\b(members|membros|miembros|mitglieder|membres)\b`)
	websitesLabel = regexp.MustCompile(`^(sites|websites|sitios|sitios web):?$`)
	yearLabel     = regexp.MustCompile(`\b(year|ano)\b`)
	styleLabel    = regexp.MustCompile(`\b(styles?|estilos?)\b`)
)

// fold lower-cases s and strips diacritics.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

// labelCells returns the data cells that follow the first header cell whose
// folded text matches pattern.
func labelCells(page *browser.Page, pattern *regexp.Regexp) (*goquery.Selection, bool) {
	var cells *goquery.Selection
	page.FindAll("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if !pattern.MatchString(fold(browser.Text(th))) {
			return true
		}
		tds := th.NextAllFiltered("td")
		if tds.Length() == 0 {
			return true
		}
		cells = tds
		return false
	})
	return cells, cells != nil
}

// uniqueTexts returns the non-empty texts of sel, deduplicated, in order.
func uniqueTexts(sel *goquery.Selection, keep func(string) bool) []string {
	out := []string{}
	seen := make(map[string]struct{})
	sel.Each(func(_ int, s *goquery.Selection) {
		txt := browser.Text(s)
		if txt == "" || (keep != nil && !keep(txt)) {
			return
		}
		if _, ok := seen[txt]; ok {
			return
		}
		seen[txt] = struct{}{}
		out = append(out, txt)
	})
	return out
}
