// Package memory is an in-process snapshot adapter, used by tests and the
// memory store mode. Snapshots are kept serialized so every Load hands out
// an independent copy.
package memory

import (
	"encoding/json"
	"sync"

	"github.com/socialshowcase/backend/model"
)

// Driver holds the latest snapshot as JSON bytes.
type Driver struct {
	mu   sync.Mutex
	data []byte
}

// New creates an empty Driver.
func New() *Driver {
	return &Driver{}
}

// Load returns a copy of the current snapshot.
func (d *Driver) Load() (*model.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap := &model.Snapshot{}
	if len(d.data) > 0 {
		if err := json.Unmarshal(d.data, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// Save replaces the current snapshot.
func (d *Driver) Save(snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.data = data
	d.mu.Unlock()
	return nil
}
