package config

import (
	"net/url"
	"time"

	"wikibook/internal/errors"
)

// Validate checks that the configuration is complete enough to run a build.
func (c *Config) Validate() error {
	if c.Wiki.BaseURL == "" {
		return errors.ConfigRequired("wiki.base_url")
	}
	if u, err := url.Parse(c.Wiki.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ValidationFailed("wiki.base_url", "must be an absolute URL")
	}
	if c.Book.Title == "" {
		return errors.ConfigRequired("book.title")
	}
	if c.Book.TocPage == "" {
		return errors.ConfigRequired("book.toc_page")
	}
	if c.Book.ExportRoot == "" {
		return errors.ConfigRequired("book.export_root")
	}
	if c.Wiki.Username != "" && c.Wiki.Password == "" {
		return errors.ValidationFailed("wiki.password", "username set but password empty (set WIKIBOOK_PASSWORD in .env)")
	}
	if c.Build.RetryInitialDelay != "" {
		if _, err := time.ParseDuration(c.Build.RetryInitialDelay); err != nil {
			return errors.ValidationFailed("build.retry_initial_delay", "not a duration")
		}
	}
	if c.Build.RetryMaxDelay != "" {
		if _, err := time.ParseDuration(c.Build.RetryMaxDelay); err != nil {
			return errors.ValidationFailed("build.retry_max_delay", "not a duration")
		}
	}
	return nil
}
