package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	consentRejectSelector = "#onetrust-reject-all-handler"
	consentAcceptSelector = "#onetrust-accept-btn-handler"
	languageLinkSelector  = "div[class*='banner_'] a"
	headingSelector       = "h1"
)

// ChromeOptions configures the Chrome engine.
type ChromeOptions struct {
	Headless          bool
	UserAgent         string
	WindowWidth       int
	WindowHeight      int
	NavigationTimeout time.Duration
	LanguageTimeout   time.Duration
}

// Chrome is a Session backed by a headless (or headed) Chrome instance.
type Chrome struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        ChromeOptions
}

// NewChrome launches a browser and opens a tab.
func NewChrome(opts ChromeOptions) (*Chrome, error) {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 60 * time.Second
	}
	if opts.LanguageTimeout <= 0 {
		opts.LanguageTimeout = 5 * time.Second
	}
	if opts.WindowWidth <= 0 || opts.WindowHeight <= 0 {
		opts.WindowWidth, opts.WindowHeight = 1200, 900
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	slog.Debug("Browser started", "headless", opts.Headless)

	return &Chrome{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
	}, nil
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) Navigate(ctx context.Context, locator string) error {
	if err := c.run(ctx, c.opts.NavigationTimeout, chromedp.Navigate(locator)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, locator, err)
	}
	return nil
}

func (c *Chrome) WaitForPresence(ctx context.Context, selector string, timeout time.Duration) error {
	err := c.run(ctx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %q after %s", ErrTimeout, selector, timeout)
	}
	return fmt.Errorf("waiting for %q: %w", selector, err)
}

func (c *Chrome) Snapshot(ctx context.Context) (*Page, error) {
	var (
		markup   string
		location string
	)
	err := c.run(ctx, c.opts.NavigationTimeout,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture document: %w", err)
	}
	if markup == "" {
		return nil, fmt.Errorf("%w: empty document at %s", ErrNoDocument, location)
	}
	return NewPage(location, markup)
}

// DismissConsent clicks "Reject All" on the cookie banner, falling back to
// "Accept" when rejecting is not offered.
func (c *Chrome) DismissConsent(ctx context.Context, timeout time.Duration) bool {
	if c.click(ctx, consentRejectSelector, timeout) {
		slog.Info("Clicked the 'Reject All' consent button")
		return true
	}
	if c.click(ctx, consentAcceptSelector, timeout) {
		slog.Info("Reject button not found, clicked 'Accept' instead")
		return true
	}
	slog.Info("Consent pop-up not found or already closed")
	return false
}

// DismissLanguageWarning follows the link in the language banner and waits
// for the reloaded page heading.
func (c *Chrome) DismissLanguageWarning(ctx context.Context) bool {
	if !c.click(ctx, languageLinkSelector, c.opts.LanguageTimeout) {
		return false
	}
	if err := c.WaitForPresence(ctx, headingSelector, c.opts.LanguageTimeout); err != nil {
		slog.Debug("Heading did not reappear after language switch", "error", err)
		return false
	}
	slog.Info("Language warning dismissed")
	return true
}

func (c *Chrome) click(ctx context.Context, selector string, timeout time.Duration) bool {
	err := c.run(ctx, timeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	return err == nil
}

func (c *Chrome) Close() error {
	c.cancel()
	c.allocCancel()
	slog.Info("Browser closed")
	return nil
}
