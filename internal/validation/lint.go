package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/skilllint/internal/frontmatter"
	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/model"
	"github.com/klauern/skilllint/internal/rules"
)

// LintSkill reads dir/SKILL.md and checks it against the rule catalog.
//
// A directory without a SKILL.md yields a report with Found=false and no
// findings. Only filesystem failures other than "not exist" return an error,
// always as *Error.
func LintSkill(dir string) (model.SkillReport, error) {
	dirName := filepath.Base(dir)
	skillPath := filepath.Join(dir, rules.SkillFile)

	info, err := os.Stat(skillPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("skill file not found", logging.Skill(dirName), logging.Path(skillPath))
			return model.NotFoundReport(dirName, dir), nil
		}
		return model.SkillReport{}, &Error{Field: skillPath, Message: "cannot stat skill file", Err: err}
	}
	if info.IsDir() {
		logging.Debug("skill file is a directory", logging.Skill(dirName), logging.Path(skillPath))
		return model.NotFoundReport(dirName, dir), nil
	}

	// #nosec G304 - skillPath is built from a directory the caller chose to lint
	data, err := os.ReadFile(skillPath)
	if err != nil {
		return model.SkillReport{}, &Error{Field: skillPath, Message: "cannot read skill file", Err: err}
	}
	content := string(data)
	fm, _ := frontmatter.Extract(content)
	lines := len(strings.Split(content, "\n"))

	issues := CheckFrontmatter(fm, dirName)
	if f, ok := CheckFileSize(lines); ok {
		issues = append(issues, f)
	}

	layout, structure, err := inspectLayout(dir)
	if err != nil {
		return model.SkillReport{}, err
	}
	issues = append(issues, structure...)

	name := dirName
	if s, ok := fm.Scalar(rules.FieldName); ok {
		name = s
	}

	report := model.NewSkillReport(name, dir, fm, issues, lines, layout)
	logging.Debug("linted skill",
		logging.Skill(name),
		logging.Count(len(issues)),
		"valid", report.Valid,
	)
	return report, nil
}

// CheckFrontmatter runs the field checks in order: required fields, optional
// fields, name format, name/directory agreement, description length.
func CheckFrontmatter(fm frontmatter.Block, dirName string) []model.Finding {
	var issues []model.Finding

	for _, spec := range rules.RequiredFields() {
		v, ok := fm.Get(spec.Name)
		switch {
		case !ok:
			issues = append(issues, model.Finding{
				Field:      spec.Name,
				Status:     model.StatusMissing,
				Suggestion: "Add required field: " + spec.Description,
				Severity:   model.SeverityCritical,
			})
		case v.IsZero():
			issues = append(issues, model.Finding{
				Field:      spec.Name,
				Status:     model.StatusEmpty,
				Suggestion: fmt.Sprintf("Field '%s' is empty. %s", spec.Name, spec.Description),
				Severity:   model.SeverityCritical,
			})
		}
	}

	for _, spec := range rules.OptionalFields() {
		if v, ok := fm.Get(spec.Name); ok && !v.IsZero() {
			continue
		}
		suggestion := fmt.Sprintf("Missing optional field '%s'. %s", spec.Name, spec.Description)
		if spec.HasExamples() {
			suggestion += " Examples: " + strings.Join(spec.Examples, ", ")
		}
		severity := model.SeverityMedium
		if spec.Name == rules.FieldAllowedTools {
			severity = model.SeverityLow
		}
		issues = append(issues, model.Finding{
			Field:      spec.Name,
			Status:     model.StatusMissing,
			Suggestion: suggestion,
			Severity:   severity,
		})
	}

	if v, ok := fm.Get(rules.FieldName); ok {
		name, scalar := v.AsScalar()
		if !scalar || !rules.ValidName(name) {
			issues = append(issues, model.Finding{
				Field:      rules.FieldName,
				Status:     model.StatusInvalid,
				Suggestion: "Name must be lowercase alphanumeric with hyphens (e.g., 'my-skill-name')",
				Severity:   model.SeverityCritical,
			})
		}
		if !scalar || name != dirName {
			issues = append(issues, model.Finding{
				Field:      rules.FieldName,
				Status:     model.StatusMismatch,
				Suggestion: fmt.Sprintf("Directory name '%s' doesn't match frontmatter name '%s'", dirName, v.String()),
				Severity:   model.SeverityCritical,
			})
		}
	}

	if v, ok := fm.Get(rules.FieldDescription); ok {
		n := v.Len()
		switch {
		case n < rules.MinDescriptionLength:
			issues = append(issues, model.Finding{
				Field:      rules.FieldDescription,
				Status:     model.StatusTooShort,
				Suggestion: fmt.Sprintf("Description is too short (%d chars). Aim for 50-200 chars with 'Use when...' context.", n),
				Severity:   model.SeverityHigh,
			})
		case n > rules.MaxDescriptionLength:
			issues = append(issues, model.Finding{
				Field:      rules.FieldDescription,
				Status:     model.StatusTooLong,
				Suggestion: fmt.Sprintf("Description is too long (%d chars). Keep under %d chars.", n, rules.MaxDescriptionLength),
				Severity:   model.SeverityHigh,
			})
		}
	}

	return issues
}

// CheckFileSize reports a finding when a SKILL.md has more lines than allowed.
func CheckFileSize(lines int) (model.Finding, bool) {
	if lines <= rules.MaxSkillLines {
		return model.Finding{}, false
	}
	return model.Finding{
		Field:  rules.FieldFileSize,
		Status: model.StatusTooLarge,
		Suggestion: fmt.Sprintf(
			"SKILL.md is %d lines. Keep under %d lines and use progressive disclosure (references/, assets/ directories).",
			lines, rules.MaxSkillLines),
		Severity: model.SeverityHigh,
	}, true
}

func inspectLayout(dir string) (model.Layout, []model.Finding, error) {
	layout := model.Layout{
		HasReferences: exists(filepath.Join(dir, rules.ReferencesDir)),
		HasAssets:     exists(filepath.Join(dir, rules.AssetsDir)),
		HasScripts:    exists(filepath.Join(dir, rules.ScriptsDir)),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return layout, nil, &Error{Field: dir, Message: "cannot list skill directory", Err: err}
	}

	var issues []model.Finding
	for _, e := range entries {
		if rules.AllowedEntry(e.Name()) {
			continue
		}
		kind := "file"
		if e.IsDir() {
			kind = "directory"
		}
		issues = append(issues, model.Finding{
			Field:  rules.FieldStructure,
			Status: model.StatusInvalidSubdir,
			Suggestion: fmt.Sprintf("Unexpected %s '%s'. Only 'references/', 'assets/', and 'scripts/' are allowed.",
				kind, e.Name()),
			Severity: model.SeverityMedium,
		})
	}
	return layout, issues, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
