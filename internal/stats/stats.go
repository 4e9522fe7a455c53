// Package stats folds lint reports into marketplace-wide counters.
package stats

import (
	"github.com/klauern/skilllint/internal/model"
)

// Summary holds marketplace-wide counters. It is always recomputed from
// reports, never updated in place by callers.
type Summary struct {
	Plugins          int `json:"total_plugins" yaml:"total_plugins"`
	Skills           int `json:"total_skills" yaml:"total_skills"`
	ValidSkills      int `json:"valid_skills" yaml:"valid_skills"`
	SkillsWithIssues int `json:"skills_with_issues" yaml:"skills_with_issues"`
	Critical         int `json:"critical_issues" yaml:"critical_issues"`
	High             int `json:"high_issues" yaml:"high_issues"`
	Medium           int `json:"medium_issues" yaml:"medium_issues"`
	Low              int `json:"low_issues" yaml:"low_issues"`
}

// Aggregate summarizes every skill of every plugin.
func Aggregate(plugins map[string]model.PluginReport) Summary {
	s := Summary{Plugins: len(plugins)}
	for _, p := range plugins {
		s = s.Merge(FromSkills(p.Skills))
	}
	return s
}

// FromSkills summarizes a set of skills without counting plugins.
//
// A skill is counted as valid only when it is valid and has no findings at
// all. Any skill with findings, advisory or not, counts toward
// SkillsWithIssues and contributes one severity count per finding. Skills
// without a SKILL.md land in neither bucket.
func FromSkills(skills []model.SkillReport) Summary {
	var s Summary
	for _, sk := range skills {
		s.Skills++
		switch {
		case sk.Valid && len(sk.Issues) == 0:
			s.ValidSkills++
		case len(sk.Issues) > 0:
			s.SkillsWithIssues++
			for _, f := range sk.Issues {
				s.add(f.Severity, 1)
			}
		}
	}
	return s
}

// Merge returns the component-wise sum of s and o.
func (s Summary) Merge(o Summary) Summary {
	return Summary{
		Plugins:          s.Plugins + o.Plugins,
		Skills:           s.Skills + o.Skills,
		ValidSkills:      s.ValidSkills + o.ValidSkills,
		SkillsWithIssues: s.SkillsWithIssues + o.SkillsWithIssues,
		Critical:         s.Critical + o.Critical,
		High:             s.High + o.High,
		Medium:           s.Medium + o.Medium,
		Low:              s.Low + o.Low,
	}
}

// Issues returns the total number of findings.
func (s Summary) Issues() int {
	return s.Critical + s.High + s.Medium + s.Low
}

// Count returns the counter for one severity.
func (s Summary) Count(sev model.Severity) int {
	switch sev {
	case model.SeverityCritical:
		return s.Critical
	case model.SeverityHigh:
		return s.High
	case model.SeverityMedium:
		return s.Medium
	case model.SeverityLow:
		return s.Low
	default:
		return 0
	}
}

// Blocking returns the number of critical and high findings.
func (s Summary) Blocking() int {
	return s.Critical + s.High
}

func (s *Summary) add(sev model.Severity, n int) {
	switch sev {
	case model.SeverityCritical:
		s.Critical += n
	case model.SeverityHigh:
		s.High += n
	case model.SeverityMedium:
		s.Medium += n
	case model.SeverityLow:
		s.Low += n
	}
}
