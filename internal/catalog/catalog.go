// Package catalog holds the registry of known model specs: a built-in table
// plus an optional extension file that can be reloaded at runtime.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"fleetd/pkg/types"
)

// Catalog is a read-mostly registry of model specs. Lookups see an immutable
// snapshot; a reload swaps the snapshot wholesale so readers never observe a
// half-merged view.
type Catalog struct {
	mu      sync.RWMutex
	byID    map[string]types.ModelSpec
	ordered []types.ModelSpec

	builtin []types.ModelSpec
	extPath string
}

// New builds a catalog from the given specs. Duplicate ids keep the last
// occurrence, which lets an extension file shadow a built-in entry.
func New(specs []types.ModelSpec) *Catalog {
	c := &Catalog{builtin: specs}
	c.replace(specs)
	return c
}

// NewWithFile builds a catalog from built-in specs merged with the extension
// file at path. An empty path means built-ins only.
func NewWithFile(builtin []types.ModelSpec, path string) (*Catalog, error) {
	c := New(builtin)
	c.extPath = path
	if path == "" {
		return c, nil
	}
	if err := c.Reload(); err != nil {
		return c, err
	}
	return c, nil
}

// Reload re-reads the extension file and swaps in the merged view.
// No-op when the catalog has no extension file.
func (c *Catalog) Reload() error {
	c.mu.RLock()
	path := c.extPath
	builtin := c.builtin
	c.mu.RUnlock()
	if path == "" {
		return nil
	}
	ext, err := LoadFile(path)
	if err != nil {
		return fmt.Errorf("catalog extension %s: %w", path, err)
	}
	merged := make([]types.ModelSpec, 0, len(builtin)+len(ext))
	merged = append(merged, builtin...)
	merged = append(merged, ext...)
	c.replace(merged)
	return nil
}

func (c *Catalog) replace(specs []types.ModelSpec) {
	byID := make(map[string]types.ModelSpec, len(specs))
	for _, s := range specs {
		if s.ID == "" {
			continue
		}
		byID[s.ID] = s
	}
	ordered := make([]types.ModelSpec, 0, len(byID))
	for _, s := range byID {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	c.mu.Lock()
	c.byID = byID
	c.ordered = ordered
	c.mu.Unlock()
}

// Lookup returns the spec for id, or false when the id is unknown.
func (c *Catalog) Lookup(id string) (types.ModelSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byID[id]
	return s, ok
}

// All returns a copy of every known spec, ordered by id.
func (c *Catalog) All() []types.ModelSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.ModelSpec, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Smallest returns the spec with the smallest footprint, used as the
// last-resort fallback when nothing passes admission.
func (c *Catalog) Smallest() (types.ModelSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var best types.ModelSpec
	found := false
	for _, s := range c.ordered {
		if !found || s.FootprintGB < best.FootprintGB {
			best = s
			found = true
		}
	}
	return best, found
}

// Len returns the number of known specs.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
