// Package browser provides the document accessor used by the extractor: a
// Session loads a locator into a live document and hands out immutable Page
// snapshots that can be queried with CSS selectors or XPath expressions.
//
// Three engines implement Session. Chrome drives a real browser through the
// DevTools protocol and is required for pages rendered by JavaScript. Static
// fetches raw markup with a colly collector and is useful for mirrors. Memory
// serves markup held in memory, either pages saved to disk (LoadMemory) or
// fixtures.
package browser
