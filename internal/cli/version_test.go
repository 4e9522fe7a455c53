package cli

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersionCommandOutput(t *testing.T) {
	out, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines of output, got %d: %q", len(lines), out)
	}
	if lines[0] != "skilllint version "+Version {
		t.Errorf("first line = %q", lines[0])
	}

	tests := []struct {
		label string
		value string
	}{
		{label: "commit:", value: Commit},
		{label: "built:", value: BuildDate},
		{label: "go:", value: runtime.Version()},
	}
	for i, tt := range tests {
		line := lines[i+1]
		if !strings.HasPrefix(line, "  "+tt.label) || !strings.HasSuffix(line, tt.value) {
			t.Errorf("line %d = %q, want %q label with value %q", i+2, line, tt.label, tt.value)
		}
	}
}

func TestVersionCommandDefinition(t *testing.T) {
	cmd := versionCommand()

	if cmd.Name != "version" {
		t.Errorf("command name = %q, want %q", cmd.Name, "version")
	}
	if !strings.Contains(cmd.Usage, "version") {
		t.Errorf("usage should mention version, got %q", cmd.Usage)
	}
	if cmd.Action == nil {
		t.Error("command should have an action function")
	}
}
