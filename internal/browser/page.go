package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Page is an immutable snapshot of a rendered document.
type Page struct {
	locator string
	raw     string
	doc     *goquery.Document
}

// NewPage parses markup into a Page.
func NewPage(locator, markup string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", locator, err)
	}
	return &Page{locator: locator, raw: markup, doc: doc}, nil
}

// Locator returns the address the snapshot was taken from.
func (p *Page) Locator() string {
	return p.locator
}

// RawMarkup returns the markup the page was parsed from.
func (p *Page) RawMarkup() string {
	return p.raw
}

// FindOne returns the first element matching selector.
func (p *Page) FindOne(selector string) (*goquery.Selection, bool) {
	sel := p.doc.Find(selector).First()
	return sel, sel.Length() > 0
}

// FindAll returns every element matching selector in document order.
func (p *Page) FindAll(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// XPath evaluates expr against the document root.
func (p *Page) XPath(expr *xpath.Expr) *goquery.Selection {
	return p.XPathIn(p.doc.Selection, expr)
}

// XPathIn evaluates expr relative to every node of scope.
func (p *Page) XPathIn(scope *goquery.Selection, expr *xpath.Expr) *goquery.Selection {
	var nodes []*html.Node
	seen := make(map[*html.Node]struct{})
	for _, n := range scope.Nodes {
		for _, found := range htmlquery.QuerySelectorAll(n, expr) {
			if _, ok := seen[found]; ok {
				continue
			}
			seen[found] = struct{}{}
			nodes = append(nodes, found)
		}
	}
	return p.doc.FindNodes(nodes...)
}

// Text returns the trimmed text of sel, or "" when sel is empty.
func Text(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

// Attr returns the trimmed value of attribute name on the first element of sel.
func Attr(sel *goquery.Selection, name string) (string, bool) {
	if sel == nil || sel.Length() == 0 {
		return "", false
	}
	v, ok := sel.Attr(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}
