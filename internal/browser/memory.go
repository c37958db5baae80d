package browser

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Memory is a Session serving markup from a map, keyed by locator. It backs
// the replay engine, which serves pages saved to disk.
type Memory struct {
	mu      sync.Mutex
	pages   map[string]string
	fail    map[string]error
	current string
	visits  []string
}

// NewMemory creates a Memory session serving pages.
func NewMemory(pages map[string]string) *Memory {
	if pages == nil {
		pages = make(map[string]string)
	}
	return &Memory{pages: pages, fail: make(map[string]error)}
}

// LoadMemory creates a Memory session from pages saved under dir. A file at
// artist/1-A.html is served for the locator join("artist/1-A").
func LoadMemory(dir string, join func(path string) string) (*Memory, error) {
	pages := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		pages[join(strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel)))] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load pages from %s: %w", dir, err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no saved pages in %s", dir)
	}
	return NewMemory(pages), nil
}

// FailNavigation makes every navigation to locator fail with err.
func (m *Memory) FailNavigation(locator string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[locator] = err
}

// Visits returns the locators navigated to, in order.
func (m *Memory) Visits() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.visits))
	copy(out, m.visits)
	return out
}

func (m *Memory) Navigate(ctx context.Context, locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.visits = append(m.visits, locator)
	if err, ok := m.fail[locator]; ok {
		m.current = ""
		return fmt.Errorf("%w: %s: %v", ErrNavigation, locator, err)
	}
	if _, ok := m.pages[locator]; !ok {
		m.current = ""
		return fmt.Errorf("%w: %s: not found", ErrNavigation, locator)
	}
	m.current = locator
	return nil
}

func (m *Memory) WaitForPresence(ctx context.Context, selector string, timeout time.Duration) error {
	page, err := m.Snapshot(ctx)
	if err != nil {
		return err
	}
	if _, ok := page.FindOne(selector); !ok {
		return fmt.Errorf("%w: %q", ErrTimeout, selector)
	}
	return nil
}

func (m *Memory) Snapshot(ctx context.Context) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == "" {
		return nil, ErrNoDocument
	}
	return NewPage(m.current, m.pages[m.current])
}

func (m *Memory) Close() error {
	return nil
}
