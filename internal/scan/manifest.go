package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/rules"
)

// UnknownVersion is reported when a plugin manifest has no version.
const UnknownVersion = "unknown"

// Manifest is the subset of .claude-plugin/plugin.json the linter reads.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// DefaultManifest returns the fallback manifest for a plugin directory.
func DefaultManifest(pluginDir string) Manifest {
	return Manifest{
		Name:    filepath.Base(pluginDir),
		Version: UnknownVersion,
	}
}

// LoadManifest reads the plugin manifest. It never fails: a missing or
// malformed manifest yields the defaults plus a plugin-level issue. Fields
// present in the file override the defaults one by one.
func LoadManifest(pluginDir string) (Manifest, []string) {
	m := DefaultManifest(pluginDir)
	path := filepath.Join(pluginDir, rules.ManifestPath)

	// #nosec G304 - path is built from a directory inside the scanned marketplace
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, []string{"Missing " + rules.ManifestPath}
		}
		logging.Warn("cannot read plugin manifest", logging.Path(path), logging.Err(err))
		return m, []string{fmt.Sprintf("Invalid %s: %v", rules.ManifestPath, err)}
	}

	parsed := m
	if err := json.Unmarshal(data, &parsed); err != nil {
		logging.Debug("malformed plugin manifest", logging.Path(path), logging.Err(err))
		return m, []string{fmt.Sprintf("Invalid %s: %v", rules.ManifestPath, err)}
	}
	return parsed, []string{}
}
