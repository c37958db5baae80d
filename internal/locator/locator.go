// Package locator normalizes document addresses so that they can be used as
// deduplication keys.
package locator

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalizer resolves hrefs against a base site and canonicalizes them.
type Normalizer struct {
	base *url.URL
}

// NewNormalizer creates a Normalizer for the given absolute base URL.
func NewNormalizer(baseURL string) (*Normalizer, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Normalizer{base: u}, nil
}

// Base returns the canonical base URL without a trailing slash.
func (n *Normalizer) Base() string {
	return n.base.Scheme + "://" + n.base.Host
}

// Join builds a locator for a path on the base site.
func (n *Normalizer) Join(path string) string {
	return n.Base() + "/" + strings.TrimPrefix(path, "/")
}

// Normalize resolves href against the base, strips the query and fragment
// and rewrites hosts that refer to the base site to the base's canonical
// scheme and host. Normalize is idempotent.
func (n *Normalizer) Normalize(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty href")
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	u = n.base.ResolveReference(u)
	if u.Host == "" {
		return "", fmt.Errorf("href %q has no host", href)
	}

	if n.sameSite(u) {
		u.Scheme = n.base.Scheme
		u.Host = n.base.Host
	} else {
		u.Host = strings.ToLower(u.Host)
		if port := u.Port(); port != "" && port == defaultPort(u.Scheme) {
			u.Host = strings.TrimSuffix(u.Host, ":"+port)
		}
	}

	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil

	return u.String(), nil
}

// Resolve makes href absolute against the base without canonicalizing it.
func (n *Normalizer) Resolve(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty href")
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	return n.base.ResolveReference(u).String(), nil
}

// Path returns the path component of a locator, or "" when it cannot be parsed.
func Path(loc string) string {
	u, err := url.Parse(loc)
	if err != nil {
		return ""
	}
	return u.Path
}

// sameSite reports whether u points at the base site. When the base pins a
// port, u must use it; otherwise the http and https defaults match.
func (n *Normalizer) sameSite(u *url.URL) bool {
	if canonicalHost(u.Hostname()) != canonicalHost(n.base.Hostname()) {
		return false
	}
	if base := n.base.Port(); base != "" {
		return u.Port() == base
	}
	switch u.Port() {
	case "", "80", "443":
		return true
	}
	return false
}

func defaultPort(scheme string) string {
	switch strings.ToLower(scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}

func canonicalHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
