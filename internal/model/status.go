package model

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Status describes what is wrong with the field a finding refers to.
type Status uint8

const (
	// StatusMissing means the field is absent.
	StatusMissing Status = iota
	// StatusEmpty means the field is present but blank.
	StatusEmpty
	// StatusInvalid means the field does not match its required format.
	StatusInvalid
	// StatusMismatch means the field disagrees with the directory layout.
	StatusMismatch
	// StatusTooShort means the field is shorter than the minimum length.
	StatusTooShort
	// StatusTooLong means the field is longer than the maximum length.
	StatusTooLong
	// StatusTooLarge means the skill file exceeds the line ceiling.
	StatusTooLarge
	// StatusInvalidSubdir means the skill directory holds an unexpected entry.
	StatusInvalidSubdir
)

var statusNames = [...]string{
	StatusMissing:       "missing",
	StatusEmpty:         "empty",
	StatusInvalid:       "invalid",
	StatusMismatch:      "mismatch",
	StatusTooShort:      "too_short",
	StatusTooLong:       "too_long",
	StatusTooLarge:      "too_large",
	StatusInvalidSubdir: "invalid_subdir",
}

// AllStatuses returns every status in declaration order.
func AllStatuses() []Status {
	all := make([]Status, len(statusNames))
	for i := range statusNames {
		all[i] = Status(i)
	}
	return all
}

// IsValid returns true if the status is one of the defined values.
func (s Status) IsValid() bool {
	return int(s) < len(statusNames)
}

// String returns the snake_case name of the status.
func (s Status) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// JSONSchema describes the encoded status.
func (Status) JSONSchema() *jsonschema.Schema {
	enum := make([]any, len(statusNames))
	for i, name := range statusNames {
		enum[i] = name
	}
	return &jsonschema.Schema{Type: "string", Enum: enum}
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for i, name := range statusNames {
		if name == normalized {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}
