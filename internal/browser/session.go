package browser

import (
	"context"
	"time"
)

// Session is a stateful browsing session holding one current document.
type Session interface {
	// Navigate loads locator as the current document.
	Navigate(ctx context.Context, locator string) error
	// WaitForPresence blocks until selector matches in the current document
	// or timeout elapses, in which case an error wrapping ErrTimeout is returned.
	WaitForPresence(ctx context.Context, selector string, timeout time.Duration) error
	// Snapshot captures the current document.
	Snapshot(ctx context.Context) (*Page, error)
	// Close releases the session.
	Close() error
}

// Interstitials dismisses overlays that block a document. Results are
// advisory: callers proceed regardless.
type Interstitials interface {
	DismissConsent(ctx context.Context, timeout time.Duration) bool
	DismissLanguageWarning(ctx context.Context) bool
}

// NoInterstitials is used with engines that cannot interact with a page.
type NoInterstitials struct{}

func (NoInterstitials) DismissConsent(context.Context, time.Duration) bool { return false }

func (NoInterstitials) DismissLanguageWarning(context.Context) bool { return false }
