// Package snapshot reads and writes Root documents as local snapshot files
// and keeps the per-document sync-state bookkeeping. The snapshot format is
// chosen by file extension; trees loaded from formats that predate sync
// metadata get epoch baselines filled in so they are always merge-aware.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ar90n/bookmarkdown-sub001/internal/logging"
	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// Format identifies a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the snapshot format from the file extension.
// Unknown extensions default to JSON, the wire format of the remote store.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Load reads a Root snapshot from path.
func Load(path string) (model.Root, error) {
	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Root{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var root model.Root
	switch FormatForPath(path) {
	case FormatYAML:
		err = yaml.Unmarshal(data, &root)
	case FormatTOML:
		err = toml.Unmarshal(data, &root)
	default:
		err = json.Unmarshal(data, &root)
	}
	if err != nil {
		return model.Root{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	logging.Debug("loaded snapshot",
		logging.Path(path),
		logging.Count(len(root.Categories)),
	)
	return model.EnsureRootMetadata(root), nil
}

// Save writes a Root snapshot to path, creating parent directories as
// needed.
func Save(path string, root model.Root) error {
	data, err := Encode(root, FormatForPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	// #nosec G306 - snapshots are user data
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}

	logging.Debug("saved snapshot",
		logging.Path(path),
		logging.Count(len(root.Categories)),
	)
	return nil
}

// Encode serializes a Root in the given format.
func Encode(root model.Root, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(root)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(root); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return json.MarshalIndent(root, "", "  ")
	}
}
