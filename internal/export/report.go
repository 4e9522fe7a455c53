package export

import (
	"maps"
	"slices"

	"github.com/klauern/skilllint/internal/model"
	"github.com/klauern/skilllint/internal/stats"
)

// Report is the document written after a marketplace scan.
type Report struct {
	Plugins map[string]model.PluginReport `json:"plugins" yaml:"plugins"`
	Stats   stats.Summary                 `json:"stats" yaml:"stats"`
}

// Build assembles a report and computes its summary.
func Build(plugins map[string]model.PluginReport) Report {
	if plugins == nil {
		plugins = map[string]model.PluginReport{}
	}
	return Report{
		Plugins: plugins,
		Stats:   stats.Aggregate(plugins),
	}
}

// PluginNames returns the plugin keys in sorted order.
func (r Report) PluginNames() []string {
	return slices.Sorted(maps.Keys(r.Plugins))
}
