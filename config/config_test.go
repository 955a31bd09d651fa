package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zhubert/stowaway/paths"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.PageSize != 40 {
		t.Errorf("PageSize = %d, want 40", cfg.PageSize)
	}
	if cfg.SnippetsPerPage != 6 {
		t.Errorf("SnippetsPerPage = %d, want 6", cfg.SnippetsPerPage)
	}
	if cfg.Unit != "chars" {
		t.Errorf("Unit = %q, want chars", cfg.Unit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.PageSize != Default().PageSize {
		t.Errorf("missing file should yield defaults, got PageSize %d", cfg.PageSize)
	}
}

func TestLoadFrom_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
page_size: 120
unit: lines
comment_styles:
  ".zig": "//"
  ".py": "##"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.PageSize != 120 {
		t.Errorf("PageSize = %d, want 120", cfg.PageSize)
	}
	if cfg.Unit != "lines" {
		t.Errorf("Unit = %q, want lines", cfg.Unit)
	}
	// Unset keys keep their defaults.
	if cfg.SnippetsPerPage != 6 {
		t.Errorf("SnippetsPerPage = %d, want default 6", cfg.SnippetsPerPage)
	}
	// The style table merges: new entries add, existing entries override,
	// untouched entries survive.
	if got := cfg.CommentStyles[".zig"]; got != "//" {
		t.Errorf("CommentStyles[.zig] = %q, want //", got)
	}
	if got := cfg.CommentStyles[".py"]; got != "##" {
		t.Errorf("CommentStyles[.py] = %q, want ##", got)
	}
	if got := cfg.CommentStyles[".go"]; got != "//" {
		t.Errorf("CommentStyles[.go] = %q, want default //", got)
	}
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "page_size: [not a number\n")
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on malformed YAML")
	}
}

func TestLoadFrom_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero page size", "page_size: 0\n"},
		{"negative snippets", "snippets_per_page: -2\n"},
		{"unknown unit", "unit: words\n"},
		{"empty prefix", "default_prefix: \"\"\n"},
		{"style key without dot", "comment_styles:\n  go: \"//\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := LoadFrom(path); err == nil {
				t.Errorf("LoadFrom() accepted %s", tt.name)
			}
		})
	}
}

func TestLoad_UsesConfigFilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	paths.Reset()
	t.Cleanup(paths.Reset)

	path, err := paths.ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() error: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("page_size: 99\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PageSize != 99 {
		t.Errorf("PageSize = %d, want 99 from config file", cfg.PageSize)
	}
}

func TestPrefixFor(t *testing.T) {
	cfg := Default()

	tests := []struct {
		path string
		want string
	}{
		{"main.go", "//"},
		{"script.py", "#"},
		{"SCRIPT.PY", "#"},
		{"schema.sql", "--"},
		{"settings.ini", ";"},
		{"README", "#"},
		{"archive.xyz", "#"},
	}

	for _, tt := range tests {
		if got := cfg.PrefixFor(tt.path); got != tt.want {
			t.Errorf("PrefixFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
