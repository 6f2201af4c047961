// Package artifact reads and writes the site data JSON file.
package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sitedata-cli/internal/model"
)

// DefaultPath is where build writes the artifact unless configured.
const DefaultPath = "data/site_data.json"

const indent = "    "

// Marshal renders h with sorted keys and four-space indentation. The same
// hierarchy always produces the same bytes.
func Marshal(h model.Hierarchy) ([]byte, error) {
	if h == nil {
		h = model.Hierarchy{}
	}
	data, err := json.MarshalIndent(h, "", indent)
	if err != nil {
		return nil, eris.Wrap(err, "artifact: marshal")
	}
	return append(data, '\n'), nil
}

// Write replaces the file at path with h. The content goes to a temp file
// in the same directory which is then renamed over path, so readers never
// see a partial artifact.
func Write(path string, h model.Hierarchy) error {
	data, err := Marshal(h)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "artifact: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".site_data-*.tmp")
	if err != nil {
		return eris.Wrap(err, "artifact: create temp file")
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "artifact: write temp file")
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "artifact: chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "artifact: close temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return eris.Wrapf(err, "artifact: rename to %s", path)
	}

	cleanup = false
	return nil
}

// Load reads a previously written artifact.
func Load(path string) (model.Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: read %s", path)
	}

	h := model.Hierarchy{}
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, eris.Wrapf(err, "artifact: decode %s", path)
	}
	return h, nil
}
