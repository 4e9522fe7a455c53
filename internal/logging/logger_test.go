package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauern/skilllint/internal/logging"
)

// captureDefault installs a JSON logger at level as the default and restores
// the previous default when the test ends.
func captureDefault(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: level, Output: &buf, JSON: true}))
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestDefaultOptionsKeepStdoutQuiet(t *testing.T) {
	opts := logging.DefaultOptions()
	if opts.Level != logging.LevelWarn {
		t.Errorf("default level = %v, want warn", opts.Level)
	}
	if opts.JSON || opts.AddSource {
		t.Errorf("default options = %+v, want text without source", opts)
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := map[string]struct {
		level    slog.Level
		wantMsgs []string
	}{
		"default warn hides scan progress": {level: logging.LevelWarn, wantMsgs: []string{"history unavailable"}},
		"verbose shows info":               {level: logging.LevelInfo, wantMsgs: []string{"marketplace scanned", "history unavailable"}},
		"debug shows everything":           {level: logging.LevelDebug, wantMsgs: []string{"linted skill", "marketplace scanned", "history unavailable"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			buf := captureDefault(t, tt.level)

			logging.Debug("linted skill", logging.Skill("pdf-tools"))
			logging.Info("marketplace scanned", logging.Count(2))
			logging.Warn("history unavailable", logging.Err(errors.New("locked")))

			var got []string
			for _, e := range decodeLines(t, buf) {
				got = append(got, e["msg"].(string))
			}
			if strings.Join(got, ",") != strings.Join(tt.wantMsgs, ",") {
				t.Errorf("messages = %v, want %v", got, tt.wantMsgs)
			}
		})
	}
}

func TestAttributeHelpers(t *testing.T) {
	buf := captureDefault(t, logging.LevelDebug)

	logging.Info("report written",
		logging.Plugin("document-tools"),
		logging.Skill("pdf-tools"),
		logging.Path("/m/.cache/marketplace-lint.json"),
		logging.Format("yaml"),
		logging.Count(3),
		logging.Err(errors.New("boom")),
	)

	entries := decodeLines(t, buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	want := map[string]any{
		"plugin": "document-tools",
		"skill":  "pdf-tools",
		"path":   "/m/.cache/marketplace-lint.json",
		"format": "yaml",
		"count":  float64(3),
		"error":  "boom",
	}
	for key, val := range want {
		if entries[0][key] != val {
			t.Errorf("%s = %v, want %v", key, entries[0][key], val)
		}
	}
}

func TestErrNilIsDropped(t *testing.T) {
	buf := captureDefault(t, logging.LevelInfo)

	logging.Info("no error", logging.Err(nil))

	entries := decodeLines(t, buf)
	if _, ok := entries[0]["error"]; ok {
		t.Errorf("nil error should not add a field: %v", entries[0])
	}
}

func TestContextLogger(t *testing.T) {
	fallback := captureDefault(t, logging.LevelInfo)

	if logging.FromContext(context.Background()) != nil {
		t.Error("empty context should carry no logger")
	}
	logging.WithContext(context.Background()).Info("fallback")
	if !strings.Contains(fallback.String(), "fallback") {
		t.Error("WithContext should fall back to the default logger")
	}

	var scoped bytes.Buffer
	ctx := logging.NewContext(context.Background(), logging.New(logging.Options{
		Level:  logging.LevelInfo,
		Output: &scoped,
	}))
	logging.WithContext(ctx).With(logging.Path("/h/history.db")).Info("scoped")

	if !strings.Contains(scoped.String(), "scoped") || !strings.Contains(scoped.String(), "path=/h/history.db") {
		t.Errorf("context logger output = %q", scoped.String())
	}
	if strings.Contains(fallback.String(), "scoped") {
		t.Error("context logger output leaked to the default logger")
	}
}

func TestWithAddsAttributes(t *testing.T) {
	buf := captureDefault(t, logging.LevelInfo)

	logging.With(logging.Operation("watch"), logging.Path("/m")).Info("change detected")

	entries := decodeLines(t, buf)
	if entries[0]["operation"] != "watch" || entries[0]["path"] != "/m" {
		t.Errorf("entry = %v", entries[0])
	}
}

func TestTimer(t *testing.T) {
	buf := captureDefault(t, logging.LevelDebug)

	done := logging.Timer("scan")
	done()

	entries := decodeLines(t, buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(entries), buf.String())
	}
	if entries[0]["msg"] != "operation started" || entries[1]["msg"] != "operation finished" {
		t.Errorf("messages = %v, %v", entries[0]["msg"], entries[1]["msg"])
	}
	if entries[1]["operation"] != "scan" {
		t.Errorf("operation = %v, want scan", entries[1]["operation"])
	}
	if _, ok := entries[1]["duration"]; !ok {
		t.Error("expected duration field on completion entry")
	}
}
