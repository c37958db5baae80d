package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gocolly/colly"
)

// StaticOptions configures the Static engine.
type StaticOptions struct {
	UserAgent      string
	RequestTimeout time.Duration
}

// Static is a Session that fetches raw markup without executing scripts.
// Elements that a script would have inserted never appear, so
// WaitForPresence fails as soon as the selector is absent.
type Static struct {
	collector *colly.Collector

	mu       sync.Mutex
	locator  string
	body     []byte
	fetchErr error
}

// NewStatic creates a Static session.
func NewStatic(opts StaticOptions) *Static {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
	)
	if opts.UserAgent != "" {
		c.UserAgent = opts.UserAgent
	}
	if opts.RequestTimeout > 0 {
		c.SetRequestTimeout(opts.RequestTimeout)
	}

	s := &Static{collector: c}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})

	c.OnResponse(func(r *colly.Response) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.locator = r.Request.URL.String()
		s.body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		slog.Debug("Request failed", "url", r.Request.URL.String(), "status", r.StatusCode, "error", err)
	})

	return s
}

func (s *Static) Navigate(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, locator, err)
	}

	s.mu.Lock()
	s.locator, s.body, s.fetchErr = "", nil, nil
	s.mu.Unlock()

	if err := s.collector.Visit(locator); err != nil {
		s.mu.Lock()
		s.fetchErr = err
		s.mu.Unlock()
		return fmt.Errorf("%w: %s: %v", ErrNavigation, locator, err)
	}
	return nil
}

func (s *Static) WaitForPresence(ctx context.Context, selector string, timeout time.Duration) error {
	page, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	if _, ok := page.FindOne(selector); !ok {
		return fmt.Errorf("%w: %q not present in static document", ErrTimeout, selector)
	}
	return nil
}

func (s *Static) Snapshot(ctx context.Context) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.body == nil {
		if s.fetchErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoDocument, s.fetchErr)
		}
		return nil, ErrNoDocument
	}
	return NewPage(s.locator, string(s.body))
}

func (s *Static) Close() error {
	return nil
}
