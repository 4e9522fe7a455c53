// Package util provides path helpers and shared test helpers.
//
//nolint:revive // var-naming - package name is meaningful
package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeEnvVar overrides the skilllint home directory.
const HomeEnvVar = "SKILLLINT_HOME"

// CacheDir is the marketplace-relative directory holding the default report.
const CacheDir = ".cache"

// ReportFile is the default report file name.
const ReportFile = "marketplace-lint.json"

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// SkillLintHome returns the directory holding skilllint's config and history.
// SKILLLINT_HOME takes precedence over ~/.skilllint.
func SkillLintHome() string {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return ExpandPath(dir)
	}
	return filepath.Join(HomeDir(), ".skilllint")
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(SkillLintHome(), "config.yaml")
}

// HistoryPath returns the default run history database path.
func HistoryPath() string {
	return filepath.Join(SkillLintHome(), "history.db")
}

// DefaultReportPath returns the report location for a marketplace root.
func DefaultReportPath(root string) string {
	return filepath.Join(root, CacheDir, ReportFile)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	return path
}
