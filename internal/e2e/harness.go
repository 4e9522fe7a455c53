// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It includes a harness for running skilllint commands in an isolated
// environment and fixtures for building marketplace trees.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/skilllint/internal/cli"
	"github.com/klauern/skilllint/internal/logging"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Stderr contains the captured standard error.
	Stderr string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness provides a test harness for running E2E CLI tests.
// It manages environment isolation, temp directories, and output capture.
type Harness struct {
	t       *testing.T
	homeDir string
	env     map[string]string
}

// NewHarness creates a new E2E test harness.
// It points SKILLLINT_HOME and the history database at a per-test directory
// and disables colors so output can be compared verbatim.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	homeDir := t.TempDir()

	h := &Harness{
		t:       t,
		homeDir: homeDir,
		env:     make(map[string]string),
	}

	h.SetEnv("SKILLLINT_HOME", homeDir)
	h.SetEnv("SKILLLINT_HISTORY_PATH", filepath.Join(homeDir, "history.db"))
	h.SetEnv("NO_COLOR", "1")
	for _, key := range []string{
		"SKILLLINT_ROOT", "SKILLLINT_EXCLUDE", "SKILLLINT_OUTPUT", "SKILLLINT_FORMAT",
		"SKILLLINT_COLOR", "SKILLLINT_HISTORY", "SKILLLINT_HISTORY_LIMIT", "SKILLLINT_DEBOUNCE",
	} {
		h.SetEnv(key, "")
	}

	return h
}

// SetEnv sets an environment variable for CLI commands run through this harness.
// The environment will be restored after the test completes.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.env[key] = value
	h.t.Setenv(key, value)
}

// HomeDir returns the isolated SKILLLINT_HOME for this harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// HistoryPath returns the history database used by commands run through the harness.
func (h *Harness) HistoryPath() string {
	return h.env["SKILLLINT_HISTORY_PATH"]
}

// Run executes a CLI command with the given arguments and captures stdout and stderr.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	if len(args) == 0 || args[0] != "skilllint" {
		args = append([]string{"skilllint"}, args...)
	}

	oldStdout, oldStderr := os.Stdout, os.Stderr
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stderr pipe: %v", err)
	}
	os.Stdout, os.Stderr = stdoutW, stderrW

	// Both pipes are drained while the command runs; a report larger than
	// the pipe buffer would otherwise block the writer.
	var stdoutBuf, stderrBuf bytes.Buffer
	var stdoutErr, stderrErr error
	stdoutDone := make(chan struct{})
	stderrDone := make(chan struct{})
	go func() {
		defer close(stdoutDone)
		_, stdoutErr = io.Copy(&stdoutBuf, stdoutR)
	}()
	go func() {
		defer close(stderrDone)
		_, stderrErr = io.Copy(&stderrBuf, stderrR)
	}()

	cmdErr := cli.Run(context.Background(), args)

	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	if err := stderrW.Close(); err != nil {
		h.t.Fatalf("failed to close stderr pipe writer: %v", err)
	}
	os.Stdout, os.Stderr = oldStdout, oldStderr
	logging.SetDefault(logging.New(logging.DefaultOptions()))

	<-stdoutDone
	<-stderrDone
	if stdoutErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", stdoutErr)
	}
	if stderrErr != nil {
		h.t.Fatalf("failed to read captured stderr: %v", stderrErr)
	}

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}
