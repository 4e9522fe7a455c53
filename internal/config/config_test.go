package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauern/skilllint/internal/validation"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if cfg.Marketplace.Root != "." {
		t.Errorf("expected root '.', got %q", cfg.Marketplace.Root)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected Output.Format to be 'json', got %q", cfg.Output.Format)
	}
	if cfg.Output.Color != "auto" {
		t.Errorf("expected Output.Color to be 'auto', got %q", cfg.Output.Color)
	}
	if !cfg.History.Enabled {
		t.Error("expected History.Enabled to be true by default")
	}
	if cfg.History.Limit != 100 {
		t.Errorf("expected History.Limit 100, got %d", cfg.History.Limit)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("expected Watch.Debounce 300ms, got %v", cfg.Watch.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Marketplace.Root = "/srv/market"
			cfg.Marketplace.Exclude = []string{"experimental-*", "*/draft-*"}
			cfg.Output.Format = "markdown"
			cfg.History.Limit = 7
			cfg.Watch.Debounce = 2 * time.Second

			if err := cfg.SaveToPath(configPath); err != nil {
				t.Fatalf("SaveToPath failed: %v", err)
			}

			loaded, err := LoadFromPath(configPath)
			if err != nil {
				t.Fatalf("LoadFromPath failed: %v", err)
			}

			if loaded.Marketplace.Root != "/srv/market" {
				t.Errorf("root = %q", loaded.Marketplace.Root)
			}
			if strings.Join(loaded.Marketplace.Exclude, ",") != "experimental-*,*/draft-*" {
				t.Errorf("exclude = %v", loaded.Marketplace.Exclude)
			}
			if loaded.Output.Format != "markdown" {
				t.Errorf("format = %q", loaded.Output.Format)
			}
			if loaded.History.Limit != 7 {
				t.Errorf("limit = %d", loaded.History.Limit)
			}
			if loaded.Watch.Debounce != 2*time.Second {
				t.Errorf("debounce = %v", loaded.Watch.Debounce)
			}
		})
	}
}

func TestLoadFromPath_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skilllint.toml")
	content := `
[marketplace]
root = "/opt/market"
exclude = ["scratch"]

[output]
format = "yaml"

[watch]
debounce = "1s"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Marketplace.Root != "/opt/market" || cfg.Output.Format != "yaml" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("debounce = %v", cfg.Watch.Debounce)
	}
	if cfg.Output.Color != "auto" || !cfg.History.Enabled {
		t.Error("unset TOML keys should keep defaults")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		check    func(*Config) bool
	}{
		{
			name:     "root",
			envKey:   "SKILLLINT_ROOT",
			envValue: "/env/market",
			check:    func(c *Config) bool { return c.Marketplace.Root == "/env/market" },
		},
		{
			name:     "exclude",
			envKey:   "SKILLLINT_EXCLUDE",
			envValue: "a, b/*,,",
			check: func(c *Config) bool {
				return strings.Join(c.Marketplace.Exclude, "|") == "a|b/*"
			},
		},
		{
			name:     "output path",
			envKey:   "SKILLLINT_OUTPUT",
			envValue: "/tmp/report.json",
			check:    func(c *Config) bool { return c.Output.Path == "/tmp/report.json" },
		},
		{
			name:     "format",
			envKey:   "SKILLLINT_FORMAT",
			envValue: "yaml",
			check:    func(c *Config) bool { return c.Output.Format == "yaml" },
		},
		{
			name:     "no color",
			envKey:   "NO_COLOR",
			envValue: "1",
			check:    func(c *Config) bool { return c.Output.Color == ColorNever },
		},
		{
			name:     "history disabled",
			envKey:   "SKILLLINT_HISTORY",
			envValue: "off",
			check:    func(c *Config) bool { return !c.History.Enabled },
		},
		{
			name:     "history path",
			envKey:   "SKILLLINT_HISTORY_PATH",
			envValue: "/tmp/h.db",
			check:    func(c *Config) bool { return c.HistoryPath() == "/tmp/h.db" },
		},
		{
			name:     "history limit",
			envKey:   "SKILLLINT_HISTORY_LIMIT",
			envValue: "5",
			check:    func(c *Config) bool { return c.History.Limit == 5 },
		},
		{
			name:     "invalid history limit ignored",
			envKey:   "SKILLLINT_HISTORY_LIMIT",
			envValue: "lots",
			check:    func(c *Config) bool { return c.History.Limit == 100 },
		},
		{
			name:     "debounce",
			envKey:   "SKILLLINT_DEBOUNCE",
			envValue: "1s",
			check:    func(c *Config) bool { return c.Watch.Debounce == time.Second },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SKILLLINT_HOME", t.TempDir())
			t.Setenv(tt.envKey, tt.envValue)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("%s=%q not applied: %+v", tt.envKey, tt.envValue, cfg)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseBool(tt.input); got != tt.want {
				t.Errorf("parseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	t.Setenv("SKILLLINT_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected defaults, got %+v", cfg.Output)
	}
	if Exists() {
		t.Error("Exists() = true without a config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SKILLLINT_HOME", home)

	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte("output: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestPartialConfigMerge(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SKILLLINT_HOME", home)
	t.Setenv("NO_COLOR", "")

	content := "output:\n  format: markdown\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("format = %q", cfg.Output.Format)
	}
	if cfg.Output.Color != "auto" || cfg.History.Limit != 100 {
		t.Error("unset keys should keep defaults")
	}
	if !Exists() {
		t.Error("Exists() = false with a config file")
	}
}

func TestSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SKILLLINT_HOME", home)

	cfg := Default()
	cfg.Output.Color = ColorNever
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Output.Color != ColorNever {
		t.Errorf("color = %q", loaded.Output.Color)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	cfg.Output.Color = "sometimes"
	cfg.Marketplace.Exclude = []string{"[bad"}
	cfg.History.Limit = -1
	cfg.Watch.Debounce = -time.Second

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation.Errors, got %T", err)
	}
	if len(errs) != 5 {
		t.Errorf("got %d errors, want 5: %v", len(errs), err)
	}

	fields := map[string]bool{}
	for _, e := range errs {
		var vErr *validation.Error
		if errors.As(e, &vErr) {
			fields[vErr.Field] = true
		}
	}
	for _, f := range []string{"output.format", "output.color", "marketplace.exclude", "history.limit", "watch.debounce"} {
		if !fields[f] {
			t.Errorf("missing error for %s", f)
		}
	}
}

func TestReportPath(t *testing.T) {
	cfg := Default()
	if got := cfg.ReportPath("/m"); got != "/m/.cache/marketplace-lint.json" {
		t.Errorf("ReportPath() = %q", got)
	}
	cfg.Output.Path = "/out/r.json"
	if got := cfg.ReportPath("/m"); got != "/out/r.json" {
		t.Errorf("ReportPath() = %q", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a ,b,, c ")
	if strings.Join(got, "|") != "a|b|c" {
		t.Errorf("splitList() = %v", got)
	}
	if len(splitList("")) != 0 {
		t.Error("splitList(\"\") should be empty")
	}
}
