// Package jsonfile persists the snapshot as one pretty-printed JSON file.
package jsonfile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/socialshowcase/backend/model"
)

// Driver reads and writes a snapshot file on local disk.
type Driver struct {
	path string
}

// New creates a Driver for the given file path. The file and its directory
// are created lazily on first Save.
func New(path string) *Driver {
	return &Driver{path: path}
}

// Load reads the snapshot. A missing file yields an empty snapshot.
func (d *Driver) Load() (*model.Snapshot, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &model.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}
	snap := &model.Snapshot{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// Save writes the snapshot via a temp file and rename, so a crash mid-write
// never leaves a truncated document behind.
func (d *Driver) Save(snap *model.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(d.path), ".db-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, d.path)
}
