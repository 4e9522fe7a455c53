package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// Root returns the fixture base directory.
func (f *Fixture) Root() string {
	return f.baseDir
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// MkdirAll creates a directory and all parent directories relative to the base.
func (f *Fixture) MkdirAll(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	if err := os.MkdirAll(fullPath, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists returns true if the file or directory exists.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Stat(filepath.Join(f.baseDir, relPath))
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}

	return string(data)
}

// Plugin creates plugins/<name> and returns its marketplace-relative path.
func (f *Fixture) Plugin(name string) string {
	f.t.Helper()
	rel := filepath.Join("plugins", name)
	f.MkdirAll(rel)
	return rel
}

// Manifest writes plugins/<plugin>/.claude-plugin/plugin.json.
func (f *Fixture) Manifest(plugin, content string) string {
	f.t.Helper()
	return f.WriteFile(filepath.Join("plugins", plugin, ".claude-plugin", "plugin.json"), content)
}

// Skill writes plugins/<plugin>/skills/<skill>/SKILL.md with the given
// frontmatter lines followed by body, and returns the skill directory.
func (f *Fixture) Skill(plugin, skill string, frontmatter []string, body string) string {
	f.t.Helper()

	var b strings.Builder
	b.WriteString("---\n")
	for _, line := range frontmatter {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("---\n")
	b.WriteString(body)

	rel := filepath.Join("plugins", plugin, "skills", skill)
	f.WriteFile(filepath.Join(rel, "SKILL.md"), b.String())
	return f.Path(rel)
}

// SkillDir creates an empty plugins/<plugin>/skills/<skill> directory.
func (f *Fixture) SkillDir(plugin, skill string) string {
	f.t.Helper()
	return f.MkdirAll(filepath.Join("plugins", plugin, "skills", skill))
}

// Marketplace creates a fixture helper for a fresh marketplace root.
func (h *Harness) Marketplace() *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.t.TempDir())
}
