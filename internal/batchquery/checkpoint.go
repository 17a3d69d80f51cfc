// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batchquery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Checkpoint is the durable map from identifier to fetched record. A key
// mapped to nil means the server was queried and authoritatively had nothing
// ("absent"), which is distinct from the key not being present at all
// ("never queried"). Once an identifier has an entry it is never re-queried,
// within a run or across resumed runs.
type Checkpoint struct {
	entries map[string]any
}

// NewCheckpoint returns an empty checkpoint.
func NewCheckpoint() *Checkpoint {
	return &Checkpoint{entries: make(map[string]any)}
}

// Load reads a checkpoint from path. A missing file yields an empty
// checkpoint; a file that exists but does not parse is an error, since
// resuming over a corrupt checkpoint would silently re-fetch or drop data.
func Load(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCheckpoint(), nil
		}
		return nil, fmt.Errorf("reading checkpoint %s: %w", path, err)
	}

	entries := make(map[string]any)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing checkpoint %s: %w", path, err)
	}
	return &Checkpoint{entries: entries}, nil
}

// Save serializes the whole checkpoint, pretty-printed, to a temporary file
// in the target directory and renames it into place, so a reader never
// observes a partially written file.
func (c *Checkpoint) Save(path string) error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating checkpoint directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp checkpoint file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing checkpoint: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp checkpoint file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp checkpoint file: %w", err)
	}
	return nil
}

// Has reports whether id has been resolved (to a record or to absent).
func (c *Checkpoint) Has(id string) bool {
	_, ok := c.entries[id]
	return ok
}

// Put records the result for id. A nil value marks the identifier absent.
func (c *Checkpoint) Put(id string, v any) {
	c.entries[id] = v
}

// Len returns the number of resolved identifiers.
func (c *Checkpoint) Len() int {
	return len(c.entries)
}

// Counts returns the number of identifiers resolved to a record and the
// number resolved to absent.
func (c *Checkpoint) Counts() (resolved, absent int) {
	for _, v := range c.entries {
		if v == nil {
			absent++
		} else {
			resolved++
		}
	}
	return resolved, absent
}

// Pending returns the identifiers from ids that the checkpoint has not
// resolved yet, preserving input order. Order is part of the resumability
// contract: with the same input list and batch size, a resumed run
// reproduces the batch boundaries of the interrupted one.
func Pending(ids []string, ck *Checkpoint) []string {
	pending := make([]string, 0, len(ids))
	for _, id := range ids {
		if !ck.Has(id) {
			pending = append(pending, id)
		}
	}
	return pending
}
