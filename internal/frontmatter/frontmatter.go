// Package frontmatter extracts the metadata header of a SKILL.md document.
//
// The header is a block delimited by "---" lines at the very top of the file.
// It is read with a small line scanner rather than a YAML parser: hand-written
// headers are often malformed, and a typo should surface as a missing field
// instead of aborting the scan. Extraction never fails.
package frontmatter

import (
	"strings"
)

// Delimiter opens and closes the metadata header.
const Delimiter = "---"

// nestedIndent marks a line as belonging to the previous top-level key.
const nestedIndent = "  "

// Extract parses the metadata header of content and returns it together with
// the body that follows the closing delimiter. When content has no header, or
// the header is never closed, it returns an empty block and content unchanged.
func Extract(content string) (Block, string) {
	header, body, ok := split(content)
	if !ok {
		return NewBlock(), content
	}
	return parse(header), body
}

// Present reports whether any entry was extracted.
func Present(b Block) bool {
	return b.Len() > 0
}

// split locates the header lines and the body. The opening delimiter must be
// the first line; the closing delimiter is the next line that equals it, but
// never the line right after the opening one.
func split(content string) ([]string, string, bool) {
	first, rest, found := strings.Cut(content, "\n")
	if !found || strings.TrimSuffix(first, "\r") != Delimiter {
		return nil, "", false
	}

	var header []string
	for rest != "" {
		line, after, more := strings.Cut(rest, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == Delimiter && len(header) > 0 {
			if !more {
				return header, "", true
			}
			return header, after, true
		}
		header = append(header, line)
		if !more {
			break
		}
		rest = after
	}

	return nil, "", false
}

// parse interprets header lines as a two-level key/value notation.
func parse(lines []string) Block {
	block := NewBlock()
	current := ""
	haveCurrent := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, nestedIndent) {
			if !haveCurrent {
				continue
			}
			parent, ok := block.Get(current)
			if !ok {
				continue
			}
			key, val, found := strings.Cut(strings.TrimSpace(line), ":")
			if !found {
				continue
			}
			fields, isMap := parent.AsMap()
			if !isMap {
				fields = NewFields()
				block.Set(current, Map(fields))
			}
			fields.Set(strings.TrimSpace(key), unquote(val))
			continue
		}

		key, val, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		current = strings.TrimSpace(key)
		haveCurrent = true
		block.Set(current, topLevelValue(unquote(val)))
	}

	return block
}

// topLevelValue classifies the right-hand side of a top-level entry.
func topLevelValue(raw string) Value {
	switch {
	case raw == "":
		return Map(nil)
	case strings.HasPrefix(raw, "["):
		return List(splitFlowList(raw)...)
	default:
		return Scalar(raw)
	}
}

// splitFlowList drops the first and last characters of raw (the brackets) and
// splits the remainder on commas.
func splitFlowList(raw string) []string {
	inner := ""
	if len(raw) >= 2 {
		inner = raw[1 : len(raw)-1]
	}
	parts := strings.Split(inner, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// unquote trims whitespace and any surrounding single or double quotes.
func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
