package config

import (
	"fmt"
	"os"
)

const starterConfig = `# wikibook configuration
wiki:
  base_url: https://wiki.example.org
  # api_path: /w/api.php
  # export_page: Special:Export
  username: ""
  password: "${WIKIBOOK_PASSWORD}"

book:
  title: My Book
  author: ""
  # document_class: style
  toc_page: Table of contents
  export_root: Main Page
  # export_depth: 2
  # skip_prefixes: [":Category:"]

output:
  directory: ./LaTeX
  data_directory: ./data
  clean: true
  keep: [style.cls]

build:
  # render_mode: auto
  # transclusions: fail
  # max_retries: 2
  # retry_backoff: linear
`

// Init writes a starter configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
