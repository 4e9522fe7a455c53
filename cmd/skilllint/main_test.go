package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runMain calls run with stdout captured and returns stdout, stderr and the
// exit code.
func runMain(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	var stdout bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(&stdout, r)
	}()

	var stderr bytes.Buffer
	code := run(context.Background(), append([]string{"skilllint"}, args...), &stderr)

	_ = w.Close()
	os.Stdout = old
	<-done

	return stdout.String(), stderr.String(), code
}

func TestRunHelpListsCommands(t *testing.T) {
	out, _, code := runMain(t, "--help")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	for _, want := range []string{"USAGE", "COMMANDS", "lint", "browse", "rules", "schema", "history", "config", "version"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDefaultLintOnEmptyMarketplace(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SKILLLINT_ROOT", root)

	out, stderr, code := runMain(t)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{"Marketplace lint", "Skills", "Report: " + filepath.Join(root, ".cache", "marketplace-lint.json")} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Invalid skills:") {
		t.Errorf("empty marketplace should list no invalid skills:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, ".cache", "marketplace-lint.json")); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestRunReportsErrors(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr string
	}{
		"missing config file": {
			args:    []string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "version"},
			wantErr: "Error: failed to load config",
		},
		"unknown rule field": {
			args:    []string{"rules", "colour"},
			wantErr: `Error: unknown field "colour"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, stderr, code := runMain(t, tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.HasPrefix(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want prefix %q", stderr, tt.wantErr)
			}
			if strings.Contains(out, "Error:") {
				t.Errorf("error leaked to stdout: %q", out)
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	out, _, code := runMain(t, "version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.HasPrefix(out, "skilllint version ") {
		t.Errorf("version output = %q", out)
	}
}
