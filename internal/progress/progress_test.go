package progress

import (
	"bytes"
	"testing"

	"github.com/klauern/skilllint/internal/ui"
)

func TestNew_DisabledForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Max: 3, Description: "Linting", Writer: &buf})

	if b.Enabled() {
		t.Fatal("bar should be disabled for a non-terminal writer")
	}
	for _, item := range []string{"a", "b", "c"} {
		if err := b.Step(item); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := b.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote %q", buf.String())
	}
}

func TestNew_Forced(t *testing.T) {
	ui.DisableColors()
	defer ui.EnableColors()

	var buf bytes.Buffer
	b := New(Options{Max: 2, Description: "Linting", Writer: &buf, Force: true})
	if !b.Enabled() {
		t.Fatal("forced bar should be enabled")
	}
	if err := b.Step("alpha"); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if err := b.Add(1); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("forced bar should render output")
	}
}

func TestScan_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if Scan(4, &buf).Enabled() {
		t.Error("scan bar should be disabled for a buffer")
	}
}
