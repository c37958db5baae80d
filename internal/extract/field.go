package extract

import (
	"fmt"
	"log/slog"

	"github.com/jaki95/discogs-scraper/internal/browser"
)

// Miss explains why a field could not be derived.
type Miss string

const (
	MissNone        Miss = ""
	MissNotFound    Miss = "not_found"
	MissEmpty       Miss = "empty"
	MissInvalid     Miss = "invalid"
	MissQueryFailed Miss = "query_failed"
)

// Field is the outcome of extracting one value. When Found is false Reason
// holds the miss reported by the last strategy tried.
type Field[T any] struct {
	Value    T
	Found    bool
	Strategy string
	Reason   Miss
}

// strategy is one way of deriving a value from a page.
type strategy[T any] struct {
	name string
	run  func(*browser.Page) (T, Miss)
}

// firstHit runs strategies in order and keeps the first one that does not
// miss. A strategy that panics counts as MissQueryFailed.
func firstHit[T any](page *browser.Page, chain ...strategy[T]) Field[T] {
	out := Field[T]{Reason: MissNotFound}
	for _, s := range chain {
		v, miss := safeRun(page, s)
		if miss == MissNone {
			return Field[T]{Value: v, Found: true, Strategy: s.name}
		}
		out.Value = v
		out.Reason = miss
	}
	return out
}

func safeRun[T any](page *browser.Page, s strategy[T]) (v T, miss Miss) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("Extraction strategy failed", "strategy", s.name, "url", page.Locator(), "error", fmt.Sprint(r))
			var zero T
			v, miss = zero, MissQueryFailed
		}
	}()
	return s.run(page)
}

// misses collects the reasons of every field that was not found.
type misses map[string]Miss

func (m misses) note(name string, found bool, reason Miss) {
	if !found {
		m[name] = reason
	}
}

func (m misses) log(stage Stage, loc string) {
	if len(m) == 0 {
		return
	}
	args := []any{"stage", stage, "url", loc}
	for name, reason := range m {
		args = append(args, name, string(reason))
	}
	slog.Debug("Fields not extracted", args...)
}
