// Package catalog provides the static plant knowledge base consumed by the
// diagnosis engine.
//
// The catalog is loaded once at startup and treated as read-only on the hot
// path. The administrative AddPlant operation is serialized against all
// concurrent readers; callers that maintain derived indexes (such as the
// fuzzy-match index) must rebuild them after a mutation.
package catalog

import (
	"errors"
	"fmt"
)

// GenericID is the id of the always-present fallback record. Its symptoms and
// solutions are merged into every other plant's candidate pool.
const GenericID = "generic"

// Cause describes one probable cause of a symptom, with the trigger words
// that indicate it in free text.
type Cause struct {
	ID       string   `yaml:"id" json:"id"`
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// PlantRecord is a single entry in the knowledge base.
type PlantRecord struct {
	ID        string              `yaml:"id" json:"id"`
	Name      string              `yaml:"name" json:"name"`
	Aliases   []string            `yaml:"aliases" json:"aliases,omitempty"`
	Symptoms  []string            `yaml:"symptoms" json:"symptoms,omitempty"`
	Causes    []Cause             `yaml:"causes" json:"causes,omitempty"`
	Solutions map[string][]string `yaml:"solutions" json:"solutions,omitempty"`
	EcoTip    string              `yaml:"eco_tip" json:"eco_tip,omitempty"`
}

// IsGeneric reports whether the record is the universal fallback.
func (p PlantRecord) IsGeneric() bool {
	return p.ID == GenericID
}

// Validate checks the structural invariants of a single record.
func (p PlantRecord) Validate() error {
	if p.ID == "" {
		return errors.New("plant id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("plant %q: name is required", p.ID)
	}
	for i, c := range p.Causes {
		if c.ID == "" {
			return fmt.Errorf("plant %q: cause %d has no id", p.ID, i)
		}
		if c.Label == "" {
			return fmt.Errorf("plant %q: cause %q has no label", p.ID, c.ID)
		}
	}
	for causeID := range p.Solutions {
		if causeID == "" {
			return fmt.Errorf("plant %q: solution keyed by empty cause id", p.ID)
		}
	}
	return nil
}
