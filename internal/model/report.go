package model

import "github.com/klauern/skilllint/internal/frontmatter"

// Layout records which optional subdirectories a skill directory has.
type Layout struct {
	HasReferences bool
	HasAssets     bool
	HasScripts    bool
}

// SkillReport is the lint result for one skill directory. Build it with
// NewSkillReport, where Valid always agrees with Issues, or NotFoundReport.
type SkillReport struct {
	Name               string            `json:"name" yaml:"name"`
	Path               string            `json:"path" yaml:"path"`
	Found              bool              `json:"found" yaml:"found"`
	Valid              bool              `json:"is_valid" yaml:"is_valid"`
	FrontmatterPresent bool              `json:"frontmatter_present" yaml:"frontmatter_present"`
	Frontmatter        frontmatter.Block `json:"frontmatter" yaml:"frontmatter"`
	Issues             []Finding         `json:"issues" yaml:"issues"`
	FileSizeLines      int               `json:"file_size_lines" yaml:"file_size_lines"`
	HasReferences      bool              `json:"has_references" yaml:"has_references"`
	HasAssets          bool              `json:"has_assets" yaml:"has_assets"`
	HasScripts         bool              `json:"has_scripts" yaml:"has_scripts"`
}

// NewSkillReport builds the report of a skill whose SKILL.md was read.
func NewSkillReport(name, path string, fm frontmatter.Block, issues []Finding, lines int, layout Layout) SkillReport {
	if issues == nil {
		issues = []Finding{}
	}
	return SkillReport{
		Name:               name,
		Path:               path,
		Found:              true,
		Valid:              !HasBlocking(issues),
		FrontmatterPresent: frontmatter.Present(fm),
		Frontmatter:        fm,
		Issues:             issues,
		FileSizeLines:      lines,
		HasReferences:      layout.HasReferences,
		HasAssets:          layout.HasAssets,
		HasScripts:         layout.HasScripts,
	}
}

// NotFoundReport builds the report of a skill directory without a SKILL.md.
// Such a report is never Valid even though it carries no findings, so it is
// counted as neither valid nor with issues.
func NotFoundReport(name, path string) SkillReport {
	return SkillReport{
		Name:        name,
		Path:        path,
		Frontmatter: frontmatter.NewBlock(),
		Issues:      []Finding{},
	}
}

// PluginReport is the lint result for one plugin and its skills.
type PluginReport struct {
	Name             string        `json:"name" yaml:"name"`
	Path             string        `json:"path" yaml:"path"`
	Version          string        `json:"version" yaml:"version"`
	Description      string        `json:"description" yaml:"description"`
	PluginJSONIssues []string      `json:"plugin_json_issues" yaml:"plugin_json_issues"`
	Skills           []SkillReport `json:"skills" yaml:"skills"`
}
