package util

import (
	"path/filepath"
	"testing"
)

func TestHomeDir(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Error("HomeDir() returned empty string")
	}

	// Verify it's an absolute path
	if !filepath.IsAbs(home) {
		t.Errorf("HomeDir() returned relative path: %s", home)
	}
}

func TestSkillLintHome(t *testing.T) {
	t.Run("defaults under home", func(t *testing.T) {
		t.Setenv(HomeEnvVar, "")
		want := filepath.Join(HomeDir(), ".skilllint")
		if got := SkillLintHome(); got != want {
			t.Errorf("SkillLintHome() = %q, want %q", got, want)
		}
	})

	t.Run("env override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(HomeEnvVar, dir)
		if got := SkillLintHome(); got != dir {
			t.Errorf("SkillLintHome() = %q, want %q", got, dir)
		}
		if got := ConfigPath(); got != filepath.Join(dir, "config.yaml") {
			t.Errorf("ConfigPath() = %q", got)
		}
		if got := HistoryPath(); got != filepath.Join(dir, "history.db") {
			t.Errorf("HistoryPath() = %q", got)
		}
	})
}

func TestDefaultReportPath(t *testing.T) {
	got := DefaultReportPath("/repo")
	want := "/repo/.cache/marketplace-lint.json"
	if got != want {
		t.Errorf("DefaultReportPath() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home := HomeDir()
	tests := map[string]struct {
		in   string
		want string
	}{
		"tilde only":    {in: "~", want: home},
		"tilde prefix":  {in: "~/market", want: filepath.Join(home, "market")},
		"absolute":      {in: "/srv/market", want: "/srv/market"},
		"relative":      {in: "market", want: "market"},
		"tilde in name": {in: "a~/b", want: "a~/b"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
