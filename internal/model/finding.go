package model

// Finding is one compliance issue reported for a skill.
type Finding struct {
	Field      string   `json:"field" yaml:"field"`
	Status     Status   `json:"status" yaml:"status"`
	Suggestion string   `json:"suggestion" yaml:"suggestion"`
	Severity   Severity `json:"importance" yaml:"importance"`
}

// Blocking reports whether the finding makes its skill invalid.
func (f Finding) Blocking() bool {
	return f.Severity.Blocking()
}

// HasBlocking reports whether any finding is critical or high.
func HasBlocking(findings []Finding) bool {
	for _, f := range findings {
		if f.Blocking() {
			return true
		}
	}
	return false
}

// CountBySeverity returns the number of findings for each severity.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int, len(AllSeverities()))
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
