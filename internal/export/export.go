// Package export renders marketplace lint reports as JSON, YAML or Markdown
// and writes them to disk.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/model"
)

// Format represents the output format for a report.
type Format string

const (
	// FormatJSON renders the report as JSON.
	FormatJSON Format = "json"
	// FormatYAML renders the report as YAML.
	FormatYAML Format = "yaml"
	// FormatMarkdown renders the report as Markdown.
	FormatMarkdown Format = "markdown"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	default:
		return ".json"
	}
}

// AllFormats returns all supported report formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown}
}

// ParseFormat parses a string into a Format. "md" and "yml" are accepted as
// aliases.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case "md":
		format = FormatMarkdown
	case "yml":
		format = FormatYAML
	}
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: json, yaml, markdown)", s)
	}
	return format, nil
}

// Options configures export behavior.
type Options struct {
	// Format specifies the output format.
	Format Format
	// Pretty enables indentation for JSON and YAML.
	Pretty bool
	// HideAdvisory omits medium and low findings from Markdown output.
	// Counters are never filtered.
	HideAdvisory bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{
		Format: FormatJSON,
		Pretty: true,
	}
}

// Exporter renders reports in one format.
type Exporter struct {
	opts Options
}

// New creates a new Exporter with the given options.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Export writes the report to w in the configured format.
func (e *Exporter) Export(r Report, w io.Writer) error {
	defer logging.Timer("export")()

	logging.Debug("starting export",
		logging.Format(e.opts.Format.String()),
		logging.Count(len(r.Plugins)),
		logging.Operation("export"),
	)

	var err error
	switch e.opts.Format {
	case FormatJSON:
		err = e.exportJSON(r, w)
	case FormatYAML:
		err = e.exportYAML(r, w)
	case FormatMarkdown:
		err = e.exportMarkdown(r, w)
	default:
		err = fmt.Errorf("unsupported format: %s", e.opts.Format)
	}

	if err != nil {
		logging.Error("export failed",
			logging.Format(e.opts.Format.String()),
			logging.Err(err),
		)
		return err
	}

	logging.Debug("export completed",
		logging.Format(e.opts.Format.String()),
		slog.Int("skills", r.Stats.Skills),
	)
	return nil
}

func (e *Exporter) exportJSON(r Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if e.opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(r)
}

func (e *Exporter) exportYAML(r Report, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	if e.opts.Pretty {
		encoder.SetIndent(2)
	}
	if err := encoder.Encode(r); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}

func (e *Exporter) exportMarkdown(r Report, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("# Marketplace Lint Report\n\n")
	sb.WriteString("| Metric | Count |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Plugins | %d |\n", r.Stats.Plugins)
	fmt.Fprintf(&sb, "| Skills | %d |\n", r.Stats.Skills)
	fmt.Fprintf(&sb, "| Valid skills | %d |\n", r.Stats.ValidSkills)
	fmt.Fprintf(&sb, "| Skills with issues | %d |\n", r.Stats.SkillsWithIssues)
	for _, sev := range model.AllSeverities() {
		fmt.Fprintf(&sb, "| %s issues | %d |\n", capitalize(sev.String()), r.Stats.Count(sev))
	}

	for _, name := range r.PluginNames() {
		sb.WriteString("\n")
		sb.WriteString(e.formatMarkdownPlugin(r.Plugins[name]))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (e *Exporter) formatMarkdownPlugin(p model.PluginReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", p.Description)
	}
	fmt.Fprintf(&sb, "Version: `%s`\n\n", p.Version)

	for _, issue := range p.PluginJSONIssues {
		fmt.Fprintf(&sb, "- :warning: %s\n", issue)
	}
	if len(p.PluginJSONIssues) > 0 {
		sb.WriteString("\n")
	}

	if len(p.Skills) == 0 {
		sb.WriteString("*No skills*\n")
		return sb.String()
	}

	sb.WriteString("| Skill | Status | Lines | Issues |\n")
	sb.WriteString("|-------|--------|-------|--------|\n")
	for _, s := range p.Skills {
		fmt.Fprintf(&sb, "| %s | %s | %d | %d |\n", s.Name, skillState(s), s.FileSizeLines, len(s.Issues))
	}

	for _, s := range p.Skills {
		shown := e.visible(s.Issues)
		if len(shown) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n### %s\n\n", s.Name)
		for _, f := range shown {
			fmt.Fprintf(&sb, "- **%s** `%s` %s: %s\n", f.Severity, f.Field, f.Status, f.Suggestion)
		}
	}

	return sb.String()
}

func (e *Exporter) visible(issues []model.Finding) []model.Finding {
	var out []model.Finding
	for _, f := range issues {
		if !e.opts.HideAdvisory || f.Blocking() {
			out = append(out, f)
		}
	}
	return out
}

func skillState(s model.SkillReport) string {
	switch {
	case !s.Found:
		return "missing SKILL.md"
	case s.Valid:
		return "valid"
	default:
		return "invalid"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
