package browser

import "errors"

var (
	// ErrNavigation is returned when a document cannot be loaded.
	ErrNavigation = errors.New("navigation failed")
	// ErrTimeout is returned when an expected element never appears.
	ErrTimeout = errors.New("timed out waiting for element")
	// ErrNoDocument is returned when a snapshot is requested before navigation.
	ErrNoDocument = errors.New("no document loaded")
)
