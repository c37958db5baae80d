package crawl

import "errors"

var (
	// ErrNoArtists means the run ended before extraction because the listing
	// produced no artist locators.
	ErrNoArtists = errors.New("no artists discovered")
	ErrSave      = errors.New("failed to save records")
)
