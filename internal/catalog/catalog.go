package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/plants.yaml
var embeddedCatalog []byte

// ErrNoGeneric is returned when the catalog has no generic fallback record.
// The engine cannot operate without one, so loading fails fast.
var ErrNoGeneric = errors.New("catalog must contain exactly one record with id \"generic\"")

// Catalog is an ordered, shared-immutable collection of plant records.
//
// Record order is a behavioral dependency: the detector scans records
// first-match-wins, so ties are broken by catalog order. Reads take a shared
// lock; AddPlant takes the exclusive lock and bumps the version so derived
// indexes can detect staleness.
type Catalog struct {
	mu      sync.RWMutex
	plants  []PlantRecord
	generic int // index of the generic record
	version uint64
}

// Load parses a YAML catalog and validates its invariants.
func Load(data []byte) (*Catalog, error) {
	var plants []PlantRecord
	if err := yaml.Unmarshal(data, &plants); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(plants) == 0 {
		return nil, errors.New("catalog is empty")
	}

	seen := make(map[string]bool, len(plants))
	generic := -1
	for i, p := range plants {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog: %w", err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("invalid catalog: duplicate plant id %q", p.ID)
		}
		seen[p.ID] = true
		if p.IsGeneric() {
			if generic >= 0 {
				return nil, ErrNoGeneric
			}
			generic = i
		}
	}
	if generic < 0 {
		return nil, ErrNoGeneric
	}

	return &Catalog{plants: plants, generic: generic, version: 1}, nil
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return Load(data)
}

// Default returns the catalog built from the embedded plant data.
func Default() (*Catalog, error) {
	return Load(embeddedCatalog)
}

// Plants returns a copy of the ordered record list.
func (c *Catalog) Plants() []PlantRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]PlantRecord, len(c.plants))
	copy(out, c.plants)
	return out
}

// Generic returns the universal fallback record.
func (c *Catalog) Generic() PlantRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.plants[c.generic]
}

// Get looks up a record by id.
func (c *Catalog) Get(id string) (PlantRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.plants {
		if p.ID == id {
			return p, true
		}
	}
	return PlantRecord{}, false
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.plants)
}

// Version returns a counter bumped on every mutation. Derived indexes compare
// it against the version they were built from.
func (c *Catalog) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// AddPlant appends a record to the catalog.
//
// This is an administrative operation outside the diagnosis hot path. It is
// serialized against all in-flight reads; the caller is responsible for
// rebuilding any derived index afterwards (see detect.Detector.RebuildIndex).
func (c *Catalog) AddPlant(p PlantRecord) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.IsGeneric() {
		return fmt.Errorf("cannot add a second %q record", GenericID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.plants {
		if existing.ID == p.ID {
			return fmt.Errorf("plant id %q already exists", p.ID)
		}
	}
	c.plants = append(c.plants, p)
	c.version++
	return nil
}
