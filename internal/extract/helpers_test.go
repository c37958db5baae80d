package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jaki95/discogs-scraper/internal/browser"
	"github.com/jaki95/discogs-scraper/internal/locator"
	"github.com/jaki95/discogs-scraper/internal/pacing"
)

const testBase = "https://www.discogs.com"

// recordingInterstitials counts dismissal attempts. switchLanguage makes
// every language dismissal succeed.
type recordingInterstitials struct {
	consent        int
	language       int
	switchLanguage bool
}

func (r *recordingInterstitials) DismissConsent(context.Context, time.Duration) bool {
	r.consent++
	return false
}

func (r *recordingInterstitials) DismissLanguageWarning(context.Context) bool {
	r.language++
	return r.switchLanguage
}

// countingPacer counts pauses instead of sleeping.
type countingPacer struct {
	pauses int
}

func (c *countingPacer) Pause(context.Context) {
	c.pauses++
}

var _ pacing.Pacer = (*countingPacer)(nil)

func testNormalizer(t *testing.T) *locator.Normalizer {
	t.Helper()
	n, err := locator.NewNormalizer(testBase)
	require.NoError(t, err)
	return n
}

func mustPage(t *testing.T, markup string) *browser.Page {
	t.Helper()
	page, err := browser.NewPage(testBase+"/test", markup)
	require.NoError(t, err)
	return page
}

func newTestExtractor(t *testing.T, session browser.Session) (*Extractor, *recordingInterstitials, *countingPacer) {
	t.Helper()
	interstitials := &recordingInterstitials{}
	pacer := &countingPacer{}
	e := NewExtractor(session, interstitials, pacer, testNormalizer(t), Options{WaitTimeout: time.Second})
	return e, interstitials, pacer
}
