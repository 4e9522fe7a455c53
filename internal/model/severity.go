// Package model holds the lint result types shared by the scanner, the
// report writers and the terminal UI.
package model

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Severity ranks how important a finding is. Critical and high findings make a
// skill invalid.
type Severity uint8

const (
	// SeverityCritical marks a violation of a required Agent Skills field.
	SeverityCritical Severity = iota
	// SeverityHigh marks a violation that still breaks compliance.
	SeverityHigh
	// SeverityMedium marks a recommended improvement.
	SeverityMedium
	// SeverityLow marks an optional improvement.
	SeverityLow
)

// AllSeverities returns every severity, most important first.
func AllSeverities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// IsValid returns true if the severity is one of the defined levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Blocking reports whether a finding of this severity makes a skill invalid.
func (s Severity) Blocking() bool {
	switch s {
	case SeverityCritical, SeverityHigh:
		return true
	case SeverityMedium, SeverityLow:
		return false
	default:
		return false
	}
}

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return fmt.Sprintf("severity(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid severity %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// JSONSchema describes the encoded severity.
func (Severity) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{"critical", "high", "medium", "low"},
	}
}

// ParseSeverity converts a string to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical, nil
	case "high":
		return SeverityHigh, nil
	case "medium":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (valid: critical, high, medium, low)", s)
	}
}
