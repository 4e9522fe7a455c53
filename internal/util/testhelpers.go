//nolint:revive // var-naming - package name is meaningful
package util

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateTempDir creates a temporary directory for testing
func CreateTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "skilllint-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(dir)
	})
	return dir
}

// WriteFile writes content to a file in the test directory
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// MkdirAll creates a directory tree for a test.
func MkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
}

// WriteSkill writes root/plugins/<plugin>/skills/<skill>/SKILL.md and returns
// the skill directory.
func WriteSkill(t *testing.T, root, plugin, skill, content string) string {
	t.Helper()
	dir := filepath.Join(root, "plugins", plugin, "skills", skill)
	WriteFile(t, filepath.Join(dir, "SKILL.md"), content)
	return dir
}

// WriteManifest writes root/plugins/<plugin>/.claude-plugin/plugin.json.
func WriteManifest(t *testing.T, root, plugin, content string) {
	t.Helper()
	WriteFile(t, filepath.Join(root, "plugins", plugin, ".claude-plugin", "plugin.json"), content)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertEqual fails if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
