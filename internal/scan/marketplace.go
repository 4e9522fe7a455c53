// Package scan walks a marketplace tree and lints every plugin and skill in it.
package scan

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/model"
	"github.com/klauern/skilllint/internal/rules"
)

// PluginDirs returns the names of the plugins under root/plugins that the
// options do not exclude, in name order.
func PluginDirs(root string, opts Options) ([]string, error) {
	names, err := subdirs(filepath.Join(root, rules.PluginsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list plugins in %s: %w", root, err)
	}

	kept := names[:0]
	for _, name := range names {
		if opts.excluded(name) {
			logging.Debug("plugin excluded", logging.Plugin(name))
			continue
		}
		kept = append(kept, name)
	}
	return kept, nil
}

// ScanMarketplace lints every plugin under root/plugins, keyed by directory
// name. A root without a plugins directory yields an empty map. Cancellation
// is checked between plugins.
func ScanMarketplace(ctx context.Context, root string, opts Options) (map[string]model.PluginReport, error) {
	defer logging.Timer("scan")()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	names, err := PluginDirs(root, opts)
	if err != nil {
		return nil, err
	}

	plugins := make(map[string]model.PluginReport, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan interrupted: %w", err)
		}

		report, err := LintPlugin(filepath.Join(root, rules.PluginsDir, name), opts)
		if err != nil {
			return nil, err
		}
		plugins[name] = report

		if opts.OnPlugin != nil {
			opts.OnPlugin(report)
		}
	}

	logging.Info("marketplace scanned",
		logging.Path(root),
		logging.Count(len(plugins)),
	)
	return plugins, nil
}
