// Package config holds user-tunable defaults for injection: pagination
// parameters and the comment style table used to pick a marker prefix for a
// host file. Configuration is read once from config.yaml at startup; a
// missing file yields the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/stowaway/paths"
)

// Config holds the application configuration
type Config struct {
	PageSize        int    `yaml:"page_size"`         // pagination unit count per page
	SnippetsPerPage int    `yaml:"snippets_per_page"` // how many comment blocks carry one page
	Unit            string `yaml:"unit"`              // "chars" or "lines"

	DefaultPrefix string            `yaml:"default_prefix"` // prefix for unrecognized host types
	CommentStyles map[string]string `yaml:"comment_styles"` // extension -> line comment prefix

	Local bool `yaml:"local"` // keep session files beside the host instead of centrally
	Debug bool `yaml:"debug"` // enable debug logging
}

// validUnits is the set of accepted pagination units.
var validUnits = map[string]bool{
	"chars": true,
	"lines": true,
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PageSize:        40,
		SnippetsPerPage: 6,
		Unit:            "chars",
		DefaultPrefix:   "#",
		CommentStyles: map[string]string{
			".c":     "//",
			".cc":    "//",
			".cpp":   "//",
			".cs":    "//",
			".go":    "//",
			".h":     "//",
			".hpp":   "//",
			".java":  "//",
			".js":    "//",
			".jsx":   "//",
			".kt":    "//",
			".php":   "//",
			".rs":    "//",
			".scala": "//",
			".swift": "//",
			".ts":    "//",
			".tsx":   "//",

			".cfg":  "#",
			".jl":   "#",
			".pl":   "#",
			".py":   "#",
			".r":    "#",
			".rb":   "#",
			".sh":   "#",
			".toml": "#",
			".yaml": "#",
			".yml":  "#",

			".hs":  "--",
			".lua": "--",
			".sql": "--",

			".clj":  ";;",
			".el":   ";;",
			".lisp": ";;",

			".ini": ";",
			".vim": "\"",
		},
	}
}

// Load reads the config file, overlaying it on the defaults. A missing file
// is not an error.
func Load() (*Config, error) {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from an explicit path, overlaying it on the
// defaults. Map entries in the file extend or override the built-in comment
// style table rather than replacing it.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.SnippetsPerPage <= 0 {
		return fmt.Errorf("snippets_per_page must be positive, got %d", c.SnippetsPerPage)
	}
	if !validUnits[c.Unit] {
		return fmt.Errorf("invalid unit %q (valid: chars, lines)", c.Unit)
	}
	if err := ValidatePrefix(c.DefaultPrefix); err != nil {
		return fmt.Errorf("default_prefix: %w", err)
	}
	for ext, prefix := range c.CommentStyles {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("comment_styles key %q must start with a dot", ext)
		}
		if err := ValidatePrefix(prefix); err != nil {
			return fmt.Errorf("comment_styles[%s]: %w", ext, err)
		}
	}
	return nil
}

// ValidatePrefix checks that a comment prefix can be emitted on a single
// marker line.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("comment prefix must not be empty")
	}
	if strings.ContainsAny(prefix, "\n\r") {
		return fmt.Errorf("comment prefix must not contain newlines")
	}
	return nil
}

// PrefixFor returns the line comment prefix for a host file, chosen by its
// extension. Unrecognized extensions get the default prefix.
func (c *Config) PrefixFor(hostPath string) string {
	ext := strings.ToLower(filepath.Ext(hostPath))
	if prefix, ok := c.CommentStyles[ext]; ok {
		return prefix
	}
	return c.DefaultPrefix
}
