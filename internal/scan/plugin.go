package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/model"
	"github.com/klauern/skilllint/internal/rules"
	"github.com/klauern/skilllint/internal/validation"
)

// Options configures a plugin or marketplace scan.
type Options struct {
	// Exclude holds doublestar patterns matched against "<plugin>" and
	// "<plugin>/<skill>". Matching plugins or skills are skipped.
	Exclude []string
	// OnPlugin is called after each plugin is linted.
	OnPlugin func(model.PluginReport)
}

// Validate checks that every exclude pattern is well formed.
func (o Options) Validate() error {
	for _, p := range o.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

func (o Options) excluded(name string) bool {
	for _, p := range o.Exclude {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// LintPlugin lints every skill directory under dir/skills in name order.
func LintPlugin(dir string, opts Options) (model.PluginReport, error) {
	pluginName := filepath.Base(dir)
	manifest, issues := LoadManifest(dir)

	report := model.PluginReport{
		Name:             pluginName,
		Path:             dir,
		Version:          manifest.Version,
		Description:      manifest.Description,
		PluginJSONIssues: issues,
		Skills:           []model.SkillReport{},
	}

	skillDirs, err := subdirs(filepath.Join(dir, rules.SkillsDir))
	if err != nil {
		return model.PluginReport{}, fmt.Errorf("failed to list skills of plugin %s: %w", pluginName, err)
	}

	for _, name := range skillDirs {
		if opts.excluded(path.Join(pluginName, name)) {
			logging.Debug("skill excluded", logging.Plugin(pluginName), logging.Skill(name))
			continue
		}
		skill, err := validation.LintSkill(filepath.Join(dir, rules.SkillsDir, name))
		if err != nil {
			return model.PluginReport{}, fmt.Errorf("failed to lint skill %s/%s: %w", pluginName, name, err)
		}
		report.Skills = append(report.Skills, skill)
	}

	logging.Debug("linted plugin",
		logging.Plugin(pluginName),
		logging.Count(len(report.Skills)),
	)
	return report, nil
}

// subdirs returns the names of the immediate subdirectories of dir in name
// order. A missing dir has none.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if isDir(dir, e) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// isDir follows symlinks so linked skill and plugin directories are scanned.
func isDir(parent string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}
