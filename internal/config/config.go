// Package config manages application configuration.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config represents the application configuration.
type Config struct {
	CacheDir string            `yaml:"cache_dir"`          // where archives and extracted datasets live
	Datasets []string          `yaml:"datasets,omitempty"` // datasets to operate on by default; empty means all
	Mirrors  map[string]string `yaml:"mirrors,omitempty"`  // dataset name -> replacement download URL
	Download DownloadConfig    `yaml:"download"`
}

// DownloadConfig contains download tuning.
type DownloadConfig struct {
	Attempts       int `yaml:"attempts"`        // attempts per archive; the hosting is flaky
	TimeoutMinutes int `yaml:"timeout_minutes"` // per-attempt timeout
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CacheDir: "", // resolved to ~/.casia when empty
		Download: DownloadConfig{
			Attempts:       5,
			TimeoutMinutes: 30,
		},
	}
}

// EffectiveCacheDir resolves the cache directory, defaulting to ~/.casia.
func (c *Config) EffectiveCacheDir() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDirName), nil
}

// MirrorURL returns the configured mirror for a dataset, or the catalog URL
// when no mirror is set.
func (c *Config) MirrorURL(dataset, catalogURL string) string {
	if url, ok := c.Mirrors[dataset]; ok && url != "" {
		return url
	}
	return catalogURL
}

// DownloadTimeout returns the per-attempt timeout as a duration.
func (c *Config) DownloadTimeout() time.Duration {
	if c.Download.TimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Download.TimeoutMinutes) * time.Minute
}
