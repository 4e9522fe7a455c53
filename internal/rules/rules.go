// Package rules holds the Agent Skills rule catalog: the required and optional
// frontmatter fields and the structural limits a skill directory must respect.
// Everything here is read-only; accessors return copies.
package rules

import (
	"regexp"
	"strings"
)

// File and directory names of the marketplace layout.
const (
	SkillFile     = "SKILL.md"
	ReadmeFile    = "README.md"
	ReferencesDir = "references"
	AssetsDir     = "assets"
	ScriptsDir    = "scripts"
	GitKeepFile   = ".gitkeep"

	PluginsDir   = "plugins"
	SkillsDir    = "skills"
	ManifestDir  = ".claude-plugin"
	ManifestFile = "plugin.json"
	ManifestPath = ManifestDir + "/" + ManifestFile
)

// Structural limits.
const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 1024
	MaxSkillLines        = 500
)

// Field names the validator refers to directly.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldLicense      = "license"
	FieldCompat       = "compatibility"
	FieldMetadata     = "metadata"
	FieldAllowedTools = "allowed-tools"

	// FieldFileSize and FieldStructure label findings that are not about a
	// frontmatter field.
	FieldFileSize  = "file_size"
	FieldStructure = "structure"
)

var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Subfield describes one key expected inside a nested field.
type Subfield struct {
	Name        string
	Description string
}

// FieldSpec describes one frontmatter field.
type FieldSpec struct {
	Name        string
	Description string
	Examples    []string
	Default     string
	Subfields   []Subfield
	Required    bool
}

// HasExamples reports whether the field lists example values.
func (f FieldSpec) HasExamples() bool {
	return len(f.Examples) > 0
}

func (f FieldSpec) clone() FieldSpec {
	f.Examples = append([]string(nil), f.Examples...)
	f.Subfields = append([]Subfield(nil), f.Subfields...)
	return f
}

var required = []FieldSpec{
	{
		Name:        FieldName,
		Description: "Skill identifier (1-64 chars, lowercase alphanumeric with hyphens)",
		Required:    true,
	},
	{
		Name:        FieldDescription,
		Description: "What the skill does and when to use it (1-1024 chars)",
		Required:    true,
	},
}

var optional = []FieldSpec{
	{
		Name:        FieldLicense,
		Description: "SPDX license identifier",
		Examples:    []string{"Apache-2.0", "MIT", "Proprietary"},
		Default:     "Apache-2.0 (recommended)",
	},
	{
		Name:        FieldCompat,
		Description: "Environment and dependency requirements",
		Examples:    []string{"Python 3.9+, AWS CLI 2.x", "Node.js 16+, Docker"},
		Default:     "Not specified",
	},
	{
		Name:        FieldMetadata,
		Description: "Custom key-value metadata (author, version, tags, category, difficulty, etc.)",
		Subfields: []Subfield{
			{Name: "author", Description: "Who created/maintains this skill"},
			{Name: "version", Description: "Semantic version of the skill"},
			{Name: "tags", Description: "Searchable keywords"},
			{Name: "category", Description: "Functional category"},
			{Name: "difficulty", Description: "beginner, intermediate, advanced"},
		},
		Default: "Not specified",
	},
	{
		Name:        FieldAllowedTools,
		Description: "Pre-approved tools for sandboxed execution (experimental)",
		Examples:    []string{"bash python", "bash aws python node"},
		Default:     "Not specified",
	},
}

var allowedEntries = map[string]bool{
	SkillFile:     true,
	ReadmeFile:    true,
	ReferencesDir: true,
	AssetsDir:     true,
	ScriptsDir:    true,
	GitKeepFile:   true,
}

// RequiredFields returns the required fields in evaluation order.
func RequiredFields() []FieldSpec {
	return cloneAll(required)
}

// OptionalFields returns the optional fields in evaluation order.
func OptionalFields() []FieldSpec {
	return cloneAll(optional)
}

// AllFields returns required fields followed by optional fields.
func AllFields() []FieldSpec {
	return append(RequiredFields(), OptionalFields()...)
}

// Lookup returns the catalog entry for a field name.
func Lookup(name string) (FieldSpec, bool) {
	for _, f := range required {
		if f.Name == name {
			return f.clone(), true
		}
	}
	for _, f := range optional {
		if f.Name == name {
			return f.clone(), true
		}
	}
	return FieldSpec{}, false
}

// ValidName reports whether name is lowercase alphanumeric segments joined by
// single hyphens.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// AllowedEntry reports whether a file or directory may appear inside a skill
// directory. Hidden entries are always allowed.
func AllowedEntry(name string) bool {
	return allowedEntries[name] || strings.HasPrefix(name, ".")
}

// LayoutDirs returns the optional subdirectories of a skill directory.
func LayoutDirs() []string {
	return []string{ReferencesDir, AssetsDir, ScriptsDir}
}

func cloneAll(specs []FieldSpec) []FieldSpec {
	out := make([]FieldSpec, len(specs))
	for i, s := range specs {
		out[i] = s.clone()
	}
	return out
}
