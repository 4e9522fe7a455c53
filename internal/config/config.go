// Package config provides configuration management for skilllint.
// It supports YAML and TOML configuration files, environment variables, and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/klauern/skilllint/internal/export"
	"github.com/klauern/skilllint/internal/util"
	"github.com/klauern/skilllint/internal/validation"
)

// Config represents the complete skilllint configuration.
type Config struct {
	// Marketplace configures what gets scanned
	Marketplace MarketplaceConfig `yaml:"marketplace" toml:"marketplace" json:"marketplace"`

	// Output configures the written report and terminal display
	Output OutputConfig `yaml:"output" toml:"output" json:"output"`

	// History configures the run history database
	History HistoryConfig `yaml:"history" toml:"history" json:"history"`

	// Watch configures watch mode
	Watch WatchConfig `yaml:"watch" toml:"watch" json:"watch"`
}

// MarketplaceConfig holds scan settings.
type MarketplaceConfig struct {
	// Root is the marketplace directory containing plugins/
	Root string `yaml:"root" toml:"root" json:"root"`
	// Exclude holds doublestar patterns matched against "<plugin>" and "<plugin>/<skill>"
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty"`
}

// OutputConfig holds report and display preferences.
type OutputConfig struct {
	// Path is the report file. Empty means <root>/.cache/marketplace-lint.json
	Path string `yaml:"path,omitempty" toml:"path,omitempty" json:"path,omitempty"`
	// Format is the report format (json, yaml, markdown)
	Format string `yaml:"format" toml:"format" json:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color" json:"color"`
}

// HistoryConfig holds run history settings.
type HistoryConfig struct {
	// Enabled records every lint run
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	// Path is the SQLite database. Empty means ~/.skilllint/history.db
	Path string `yaml:"path,omitempty" toml:"path,omitempty" json:"path,omitempty"`
	// Limit is the number of runs kept; older runs are pruned
	Limit int `yaml:"limit" toml:"limit" json:"limit"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	// Debounce is the quiet period after a change before rescanning
	Debounce time.Duration `yaml:"debounce" toml:"debounce" json:"debounce"`
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Marketplace: MarketplaceConfig{
			Root: ".",
		},
		Output: OutputConfig{
			Format: string(export.FormatJSON),
			Color:  ColorAuto,
		},
		History: HistoryConfig{
			Enabled: true,
			Limit:   100,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// FilePath returns the path to the config file.
func FilePath() string {
	return util.ConfigPath()
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path. Files ending in
// .toml are decoded as TOML, everything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path, as TOML when the
// path ends in .toml and as YAML otherwise.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	var data []byte
	if isTOML(path) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(c); err != nil {
			return err
		}
		data = []byte(sb.String())
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return err
		}
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs validation.Errors

	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, &validation.Error{Field: "output.format", Message: "unsupported format", Err: err})
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, &validation.Error{
			Field:   "output.color",
			Message: fmt.Sprintf("must be auto, always or never, got %q", c.Output.Color),
		})
	}
	for _, p := range c.Marketplace.Exclude {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, &validation.Error{
				Field:   "marketplace.exclude",
				Message: fmt.Sprintf("invalid pattern %q", p),
				Err:     doublestar.ErrBadPattern,
			})
		}
	}
	if c.History.Limit < 0 {
		errs = append(errs, &validation.Error{Field: "history.limit", Message: "must not be negative"})
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &validation.Error{Field: "watch.debounce", Message: "must not be negative"})
	}

	return errs.Err()
}

// ReportPath returns the configured report path, or the default location
// under root.
func (c *Config) ReportPath(root string) string {
	if c.Output.Path != "" {
		return util.ExpandPath(c.Output.Path)
	}
	return util.DefaultReportPath(root)
}

// HistoryPath returns the configured history database path.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return util.ExpandPath(c.History.Path)
	}
	return util.HistoryPath()
}

// applyEnvironment applies environment variable overrides.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("SKILLLINT_ROOT"); v != "" {
		c.Marketplace.Root = v
	}
	if v := os.Getenv("SKILLLINT_EXCLUDE"); v != "" {
		c.Marketplace.Exclude = splitList(v)
	}

	if v := os.Getenv("SKILLLINT_OUTPUT"); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv("SKILLLINT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("SKILLLINT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if os.Getenv("NO_COLOR") != "" {
		c.Output.Color = ColorNever
	}

	if v := os.Getenv("SKILLLINT_HISTORY"); v != "" {
		c.History.Enabled = parseBool(v)
	}
	if v := os.Getenv("SKILLLINT_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("SKILLLINT_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.History.Limit = n
		}
	}

	if v := os.Getenv("SKILLLINT_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Watch.Debounce = d
		}
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitList splits a comma-separated list. Empty segments are filtered out.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
