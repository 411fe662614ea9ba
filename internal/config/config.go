package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Content location; empty means the embedded default content.
	ContentDir string

	// Remote fragment store (optional)
	FragmentStoreURL    string
	FragmentStoreAPIKey string
	FragmentKeyPrefix   string

	// Auth for the JSON API; empty disables it.
	DocsAPIKey string

	// Rendering
	TitlePrefix   string
	IndexTitle    string
	WarmFragments bool

	// Export
	ExportConcurrency int

	// Render stats window
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ContentDir: os.Getenv("CONTENT_DIR"),

		FragmentStoreURL:    os.Getenv("FRAGMENT_STORE_URL"),
		FragmentStoreAPIKey: os.Getenv("FRAGMENT_STORE_API_KEY"),
		FragmentKeyPrefix:   envOr("FRAGMENT_KEY_PREFIX", "site/fragments/"),

		DocsAPIKey: os.Getenv("DOCS_API_KEY"),

		TitlePrefix:   envOr("TITLE_PREFIX", "Comet parameter: "),
		IndexTitle:    envOr("INDEX_TITLE", "Comet parameters"),
		WarmFragments: envBool("WARM_FRAGMENTS", true),

		ExportConcurrency: envInt("EXPORT_CONCURRENCY", 4),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.ExportConcurrency <= 0 {
		cfg.ExportConcurrency = 4
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.FragmentStoreURL != "" {
		u, err := url.Parse(c.FragmentStoreURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("FRAGMENT_STORE_URL must be an absolute http(s) URL")
		}
		if c.FragmentStoreAPIKey == "" {
			return fmt.Errorf("FRAGMENT_STORE_API_KEY is required when FRAGMENT_STORE_URL is set")
		}
	}
	if c.ContentDir != "" {
		info, err := os.Stat(c.ContentDir)
		if err != nil {
			return fmt.Errorf("CONTENT_DIR: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("CONTENT_DIR %s is not a directory", c.ContentDir)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
