package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauern/skilllint/internal/frontmatter"
	"github.com/klauern/skilllint/internal/model"
	"github.com/klauern/skilllint/internal/stats"
)

func TestStatusFunctions(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tests := []struct {
		name     string
		fn       func(string) string
		input    string
		contains string
	}{
		{"StatusSuccess empty", StatusSuccess, "", SymbolSuccess},
		{"StatusSuccess with msg", StatusSuccess, "done", SymbolSuccess + " done"},
		{"StatusError empty", StatusError, "", SymbolError},
		{"StatusError with msg", StatusError, "failed", SymbolError + " failed"},
		{"StatusWarning empty", StatusWarning, "", SymbolWarning},
		{"StatusSkipped with msg", StatusSkipped, "skip", SymbolSkipped + " skip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.input)
			if got != tt.contains {
				t.Errorf("got %q, want %q", got, tt.contains)
			}
		})
	}
}

func TestColorToggle(t *testing.T) {
	initial := IsColorEnabled()

	DisableColors()
	if IsColorEnabled() {
		t.Error("expected colors to be disabled")
	}

	EnableColors()
	if !IsColorEnabled() {
		t.Error("expected colors to be enabled")
	}

	if !initial {
		DisableColors()
	}
}

func TestSeverity(t *testing.T) {
	DisableColors()
	defer EnableColors()

	for _, sev := range model.AllSeverities() {
		if got := Severity(sev, "x"); got != "x" {
			t.Errorf("Severity(%s) = %q with colors disabled", sev, got)
		}
	}
	if got := SeverityLabel(model.SeverityCritical); got != "Critical" {
		t.Errorf("SeverityLabel() = %q", got)
	}
}

func TestSkillStatus(t *testing.T) {
	DisableColors()
	defer EnableColors()

	advisory := []model.Finding{{Field: "license", Status: model.StatusMissing, Severity: model.SeverityMedium}}
	blocking := []model.Finding{{Field: "name", Status: model.StatusMissing, Severity: model.SeverityCritical}}

	tests := map[string]struct {
		report model.SkillReport
		want   string
	}{
		"clean":     {report: model.NewSkillReport("s", "/s", frontmatter.NewBlock(), nil, 1, model.Layout{}), want: SymbolSuccess},
		"advisory":  {report: model.NewSkillReport("s", "/s", frontmatter.NewBlock(), advisory, 1, model.Layout{}), want: SymbolWarning},
		"blocking":  {report: model.NewSkillReport("s", "/s", frontmatter.NewBlock(), blocking, 1, model.Layout{}), want: SymbolError},
		"not found": {report: model.NotFoundReport("s", "/s"), want: SymbolSkipped + " no SKILL.md"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := SkillStatus(tt.report); got != tt.want {
				t.Errorf("SkillStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintSummary(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintSummary(&buf, stats.Summary{Plugins: 2, Skills: 5, ValidSkills: 3, SkillsWithIssues: 2, Critical: 1, Low: 4}, "/m/.cache/marketplace-lint.json")
	out := buf.String()

	for _, want := range []string{"Marketplace lint", "Plugins", "Critical issues", "Low issues", "Report: /m/.cache/marketplace-lint.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintDelta(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintDelta(&buf, stats.Summary{ValidSkills: 2, Critical: 3}, stats.Summary{ValidSkills: 4, Critical: 1})
	want := "Since last run: valid +2, with issues +0, critical -2, high +0\n"
	if buf.String() != want {
		t.Errorf("PrintDelta() = %q, want %q", buf.String(), want)
	}
}
