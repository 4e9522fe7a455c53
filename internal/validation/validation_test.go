package validation

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := map[string]struct {
		err  *Error
		want string
	}{
		"without cause": {
			err:  &Error{Field: "/m/skills/pdf", Message: "cannot list skill directory"},
			want: `validation failed for "/m/skills/pdf": cannot list skill directory`,
		},
		"with cause": {
			err:  &Error{Field: "SKILL.md", Message: "cannot read skill file", Err: fs.ErrPermission},
			want: `validation failed for "SKILL.md": cannot read skill file: permission denied`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := error(&Error{Field: "x", Message: "m", Err: fs.ErrPermission})
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is should see the wrapped cause")
	}

	var vErr *Error
	if !errors.As(err, &vErr) || vErr.Field != "x" {
		t.Errorf("errors.As() = %v", vErr)
	}
}

func TestErrors(t *testing.T) {
	var none Errors
	if none.Err() != nil {
		t.Error("empty Errors should collapse to nil")
	}
	if none.Error() != "no validation errors" {
		t.Errorf("Error() = %q", none.Error())
	}

	one := Errors{&Error{Field: "a", Message: "bad"}}
	if one.Err() != one[0] {
		t.Error("single Errors should collapse to its element")
	}

	two := Errors{&Error{Field: "a", Message: "bad"}, fs.ErrNotExist}
	if !strings.HasPrefix(two.Error(), "2 validation errors:") {
		t.Errorf("Error() = %q", two.Error())
	}
	if !errors.Is(two.Err(), fs.ErrNotExist) {
		t.Error("errors.Is should see collected errors")
	}
}
