package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wikibook/internal/retry"
)

// Config represents the application configuration
type Config struct {
	Wiki   WikiConfig   `yaml:"wiki"`
	Book   BookConfig   `yaml:"book"`
	Output OutputConfig `yaml:"output"`
	Build  BuildConfig  `yaml:"build"`
}

// WikiConfig describes the remote MediaWiki instance and its credentials.
// Password is normally supplied through environment expansion
// (e.g. "${WIKIBOOK_PASSWORD}") with the variable loaded from .env.
type WikiConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIPath    string `yaml:"api_path,omitempty"`    // defaults to /w/api.php
	ExportPage string `yaml:"export_page,omitempty"` // localized Special:Export title
	Username   string `yaml:"username,omitempty"`
	Password   string `yaml:"password,omitempty"`
	UserAgent  string `yaml:"user_agent,omitempty"`
}

// BookConfig describes the book being assembled.
type BookConfig struct {
	Title         string   `yaml:"title"`
	Author        string   `yaml:"author,omitempty"`
	DocumentClass string   `yaml:"document_class,omitempty"` // defaults to "style"
	TocPage       string   `yaml:"toc_page"`                 // wiki page holding the outline
	ExportRoot    string   `yaml:"export_root"`              // category/page seeding the export
	ExportDepth   int      `yaml:"export_depth,omitempty"`   // page-link depth, defaults to 2
	SkipPrefixes  []string `yaml:"skip_prefixes,omitempty"`  // reserved namespaces excluded from the book
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory     string   `yaml:"directory,omitempty"`      // defaults to ./LaTeX
	DataDirectory string   `yaml:"data_directory,omitempty"` // downloaded export XML, defaults to ./data
	Clean         bool     `yaml:"clean"`                    // clean output directory before build
	Keep          []string `yaml:"keep,omitempty"`           // files preserved across cleans (style.cls)
}

// TransclusionPolicy selects what a failed transclusion fetch does to the build.
type TransclusionPolicy string

const (
	TransclusionFail TransclusionPolicy = "fail" // abort the build (default)
	TransclusionSkip TransclusionPolicy = "skip" // drop the marker, log a warning
)

// BuildConfig holds build behavior knobs.
type BuildConfig struct {
	RenderMode    RenderMode         `yaml:"render_mode,omitempty"`   // auto|always|never: run pdflatex after rendering
	Transclusions TransclusionPolicy `yaml:"transclusions,omitempty"` // fail|skip on fetch errors
	PandocPath    string             `yaml:"pandoc_path,omitempty"`   // override pandoc binary lookup
	// Retry policy fields (apply to transient wiki API failures)
	MaxRetries        int    `yaml:"max_retries,omitempty"`         // total retry attempts after first attempt (default 2)
	RetryBackoff      string `yaml:"retry_backoff,omitempty"`       // fixed|linear|exponential (default linear)
	RetryInitialDelay string `yaml:"retry_initial_delay,omitempty"` // duration string (default 1s)
	RetryMaxDelay     string `yaml:"retry_max_delay,omitempty"`     // cap for exponential (default 30s)
}

// RetryPolicy builds the effective retry policy from the raw config fields.
func (b BuildConfig) RetryPolicy() retry.Policy {
	initial, _ := time.ParseDuration(b.RetryInitialDelay)
	maxDelay, _ := time.ParseDuration(b.RetryMaxDelay)
	retries := b.MaxRetries
	if retries == 0 {
		retries = -1 // let the policy default apply
	}
	return retry.NewPolicy(retry.NormalizeBackoffMode(b.RetryBackoff), initial, maxDelay, retries)
}

// Load loads configuration from the specified file.
// A .env file next to the working directory is loaded first (without
// overriding existing environment variables), then environment variables
// are expanded inside the YAML content before unmarshalling.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Wiki.APIPath == "" {
		c.Wiki.APIPath = "/w/api.php"
	}
	if c.Wiki.ExportPage == "" {
		c.Wiki.ExportPage = "Special:Export"
	}
	if c.Wiki.UserAgent == "" {
		c.Wiki.UserAgent = "WikiBook/1.0"
	}

	if c.Book.DocumentClass == "" {
		c.Book.DocumentClass = "style"
	}
	if c.Book.ExportDepth <= 0 {
		c.Book.ExportDepth = 2
	}
	if len(c.Book.SkipPrefixes) == 0 {
		c.Book.SkipPrefixes = []string{":Category:"}
	}

	if c.Output.Directory == "" {
		c.Output.Directory = "./LaTeX"
	}
	if c.Output.DataDirectory == "" {
		c.Output.DataDirectory = "./data"
	}
	if len(c.Output.Keep) == 0 {
		c.Output.Keep = []string{"style.cls"}
	}

	if rm := NormalizeRenderMode(string(c.Build.RenderMode)); rm != "" {
		c.Build.RenderMode = rm
	} else {
		c.Build.RenderMode = RenderModeAuto
	}
	if c.Build.Transclusions != TransclusionSkip {
		c.Build.Transclusions = TransclusionFail
	}
}
