package main

import (
	"fmt"

	"github.com/jaki95/discogs-scraper/config"
	"github.com/jaki95/discogs-scraper/internal/browser"
	"github.com/jaki95/discogs-scraper/internal/crawl"
	"github.com/jaki95/discogs-scraper/internal/extract"
	"github.com/jaki95/discogs-scraper/internal/locator"
	"github.com/jaki95/discogs-scraper/internal/pacing"
	"github.com/jaki95/discogs-scraper/internal/storage"
)

// newSession starts the configured browsing engine. Only the chrome engine
// can dismiss interstitials.
func newSession(cfg *config.Config) (browser.Session, browser.Interstitials, error) {
	switch cfg.Browser.Engine {
	case "chrome":
		chrome, err := browser.NewChrome(browser.ChromeOptions{
			Headless:          cfg.Browser.Headless,
			UserAgent:         cfg.Browser.UserAgent,
			WindowWidth:       cfg.Browser.WindowWidth,
			WindowHeight:      cfg.Browser.WindowHeight,
			NavigationTimeout: cfg.Browser.NavigationTimeout,
			LanguageTimeout:   cfg.Browser.LanguageTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return chrome, chrome, nil
	case "static":
		return browser.NewStatic(browser.StaticOptions{
			UserAgent:      cfg.Browser.UserAgent,
			RequestTimeout: cfg.Browser.NavigationTimeout,
		}), browser.NoInterstitials{}, nil
	case "replay":
		normalizer, err := locator.NewNormalizer(cfg.BaseURL)
		if err != nil {
			return nil, nil, err
		}
		memory, err := browser.LoadMemory(cfg.Browser.ReplayDir, normalizer.Join)
		if err != nil {
			return nil, nil, err
		}
		return memory, browser.NoInterstitials{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown browser engine %q", cfg.Browser.Engine)
	}
}

func newExtraction(
	cfg *config.Config,
	session browser.Session,
	interstitials browser.Interstitials,
	onAlbum func(string, error),
) (*extract.Discoverer, *extract.Extractor, pacing.Pacer, error) {
	normalizer, err := locator.NewNormalizer(cfg.BaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	pacer := pacing.NewRandom(cfg.Delay.Min, cfg.Delay.Max)

	discoverer := extract.NewDiscoverer(session, interstitials, pacer, normalizer, cfg.Browser.WaitTimeout)
	extractor := extract.NewExtractor(session, interstitials, pacer, normalizer, extract.Options{
		WaitTimeout: cfg.Browser.WaitTimeout,
		MaxWebsites: cfg.Limits.Websites,
		OnAlbum:     onAlbum,
	})
	return discoverer, extractor, pacer, nil
}

func discoverOptions(cfg *config.Config) extract.DiscoverOptions {
	return extract.DiscoverOptions{
		Sections:     cfg.Listing.Sections,
		LinkSelector: cfg.Listing.LinkSelector,
		PathPattern:  extract.ArtistPath,
		Cap:          cfg.Limits.Artists,
	}
}

func runParams(cfg *config.Config) (crawl.Params, error) {
	listing, err := cfg.ListingURL()
	if err != nil {
		return crawl.Params{}, err
	}
	return crawl.Params{
		Listing:  listing,
		Genre:    cfg.Genre.Name,
		Discover: discoverOptions(cfg),
		AlbumCap: cfg.Limits.Albums,
	}, nil
}

func storageOptions(cfg *config.Config) storage.Options {
	return storage.Options{
		GCSCredentialsFile: cfg.Output.GCSCredentialsFile,
		MinIO: storage.MinIOOptions{
			Endpoint:  cfg.Output.MinIO.Endpoint,
			AccessKey: cfg.Output.MinIO.AccessKey,
			SecretKey: cfg.Output.MinIO.SecretKey,
			Region:    cfg.Output.MinIO.Region,
			UseSSL:    cfg.Output.MinIO.UseSSL,
		},
	}
}
