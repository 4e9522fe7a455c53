package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/skilllint/internal/model"
	"github.com/klauern/skilllint/internal/stats"
)

var (
	titleCaser = cases.Title(language.English)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Width(20)
)

// SeverityLabel returns the title-cased name of a severity, e.g. "Critical".
func SeverityLabel(sev model.Severity) string {
	return titleCaser.String(sev.String())
}

// SummaryLines renders the counters as aligned "label value" lines.
func SummaryLines(s stats.Summary) []string {
	lines := []string{
		row("Plugins", fmt.Sprint(s.Plugins)),
		row("Skills", fmt.Sprint(s.Skills)),
		row("Valid skills", Success(s.ValidSkills)),
		row("Skills with issues", Warning(s.SkillsWithIssues)),
	}
	for _, sev := range model.AllSeverities() {
		lines = append(lines, row(SeverityLabel(sev)+" issues", Severity(sev, fmt.Sprint(s.Count(sev)))))
	}
	return lines
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

// PrintSummary writes the summary, boxed when colors are enabled.
func PrintSummary(w io.Writer, s stats.Summary, reportPath string) {
	body := strings.Join(SummaryLines(s), "\n")
	if reportPath != "" {
		body += "\n\n" + Dim("Report: "+reportPath)
	}

	if IsColorEnabled() {
		_, _ = fmt.Fprintln(w, boxStyle.Render(Header("Marketplace lint")+"\n\n"+body))
		return
	}
	_, _ = fmt.Fprintln(w, "Marketplace lint")
	_, _ = fmt.Fprintln(w, body)
}

// PrintDelta writes the change in counters relative to a previous run.
func PrintDelta(w io.Writer, prev, cur stats.Summary) {
	parts := []string{
		delta("valid", prev.ValidSkills, cur.ValidSkills, true),
		delta("with issues", prev.SkillsWithIssues, cur.SkillsWithIssues, false),
		delta("critical", prev.Critical, cur.Critical, false),
		delta("high", prev.High, cur.High, false),
	}
	_, _ = fmt.Fprintf(w, "Since last run: %s\n", strings.Join(parts, ", "))
}

func delta(label string, prev, cur int, higherIsBetter bool) string {
	d := cur - prev
	text := fmt.Sprintf("%s %+d", label, d)
	switch {
	case d == 0:
		return Dim(text)
	case (d > 0) == higherIsBetter:
		return Success(text)
	default:
		return Error(text)
	}
}
