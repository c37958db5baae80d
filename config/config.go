package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jaki95/discogs-scraper/internal/locator"
)

type Config struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`

	Genre   GenreConfig   `yaml:"genre"`
	Limits  LimitsConfig  `yaml:"limits"`
	Browser BrowserConfig `yaml:"browser"`
	Delay   DelayConfig   `yaml:"delay"`
	Listing ListingConfig `yaml:"listing"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type GenreConfig struct {
	// Slug is the genre's path segment on the listing page.
	Slug string `yaml:"slug" validate:"required"`
	// Name is the genre label stored on every record.
	Name string `yaml:"name" validate:"required"`
}

type LimitsConfig struct {
	Artists int `yaml:"artists" validate:"min=1"`
	Albums  int `yaml:"albums" validate:"min=1"`
	// Websites caps the websites kept per artist; zero keeps all of them.
	Websites int `yaml:"websites" validate:"min=0"`
}

type BrowserConfig struct {
	// Engine is "chrome" for a rendering browser, "static" for plain HTTP or
	// "replay" to serve pages saved under ReplayDir.
	Engine            string        `yaml:"engine" validate:"oneof=chrome static replay"`
	ReplayDir         string        `yaml:"replay_dir" validate:"required_if=Engine replay"`
	Headless          bool          `yaml:"headless"`
	UserAgent         string        `yaml:"user_agent"`
	WaitTimeout       time.Duration `yaml:"wait_timeout" validate:"gt=0"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" validate:"gt=0"`
	LanguageTimeout   time.Duration `yaml:"language_timeout" validate:"gt=0"`
	WindowWidth       int           `yaml:"window_width" validate:"min=1"`
	WindowHeight      int           `yaml:"window_height" validate:"min=1"`
}

type DelayConfig struct {
	Min time.Duration `yaml:"min" validate:"gte=0"`
	Max time.Duration `yaml:"max" validate:"gtefield=Min"`
}

type ListingConfig struct {
	// Sections are scanned in order; the first one marks the page as loaded.
	Sections     []string `yaml:"sections" validate:"required,min=1,dive,required"`
	LinkSelector string   `yaml:"link_selector" validate:"required"`
}

type OutputConfig struct {
	// Path is a local file path, gs://bucket/key or s3://bucket/key.
	Path               string      `yaml:"path" validate:"required"`
	GCSCredentialsFile string      `yaml:"gcs_credentials_file"`
	MinIO              MinIOConfig `yaml:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text logfmt json"`
	// File duplicates log output into a rotated file when set.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"min=0"`
}

type MetricsConfig struct {
	// Textfile is where run metrics are written in Prometheus text format.
	Textfile string `yaml:"textfile"`
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		BaseURL: "https://www.discogs.com",
		Genre: GenreConfig{
			Slug: "rock",
			Name: "Rock",
		},
		Limits: LimitsConfig{
			Artists: 10,
			Albums:  10,
		},
		Browser: BrowserConfig{
			Engine:            "chrome",
			Headless:          true,
			UserAgent:         defaultUserAgent,
			WaitTimeout:       20 * time.Second,
			NavigationTimeout: 60 * time.Second,
			LanguageTimeout:   5 * time.Second,
			WindowWidth:       1200,
			WindowHeight:      900,
		},
		Delay: DelayConfig{
			Min: time.Second,
			Max: 2500 * time.Millisecond,
		},
		Listing: ListingConfig{
			Sections: []string{
				"ul#most_collected",
				"ul#top_artists",
				"ul#early_masters",
				"ul#top_mp_items",
			},
			LinkSelector: "a[href*='/artist/']",
		},
		Output: OutputConfig{
			Path: "rock_genre/discogs_data.jsonl",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the YAML file at path on top of the defaults, applies
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		// Unmarshal the YAML data into the defaults
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DISCOGS_BASE_URL":               &c.BaseURL,
		"SCRAPER_OUTPUT":                 &c.Output.Path,
		"GOOGLE_APPLICATION_CREDENTIALS": &c.Output.GCSCredentialsFile,
		"MINIO_ENDPOINT":                 &c.Output.MinIO.Endpoint,
		"MINIO_ACCESS_KEY":               &c.Output.MinIO.AccessKey,
		"MINIO_SECRET_KEY":               &c.Output.MinIO.SecretKey,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
}

// Validate checks the configuration after flags have been applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ListingURL returns the genre listing page on the base site.
func (c *Config) ListingURL() (string, error) {
	normalizer, err := locator.NewNormalizer(c.BaseURL)
	if err != nil {
		return "", err
	}
	return normalizer.Join("genre/" + c.Genre.Slug), nil
}
