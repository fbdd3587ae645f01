// Package detect maps free-text input to the best-matching plant record.
//
// Matching runs in strict priority order: exact name match, alias match,
// fuzzy match, generic fallback. Exact and alias checks are cheap and
// unambiguous; fuzzy search only engages when literal matching fails, which
// bounds false positives from noisy approximate matching.
package detect

import (
	"strings"
	"sync"

	"github.com/verdantlabs/plantdoc/internal/catalog"
)

// Method describes how a plant was identified.
type Method string

const (
	MethodPlantName Method = "plant_name_match"
	MethodAlias     Method = "alias_match"
	MethodFuzzy     Method = "fuzzy_match"
	MethodFallback  Method = "generic_fallback"

	// MethodNone is used by the orchestrator when detection never ran, such
	// as for empty input.
	MethodNone Method = "none"
)

// Scores assigned per detection method. Fuzzy scores are derived from the
// match distance instead.
const (
	exactScore    = 1.0
	aliasScore    = 0.9
	fallbackScore = 0.1
)

// Match is the result of plant detection. Plant is never empty: detection
// degrades to the generic record with a low score when nothing matches.
type Match struct {
	Plant  catalog.PlantRecord
	Score  float64
	Method Method
}

// fuzzyStopwords are tokens too common across the catalog to identify a
// single plant. Without this, "my plant is sad" would fuzzy-match the first
// record whose name contains "plant".
var fuzzyStopwords = map[string]bool{
	"plant":  true,
	"plants": true,
	"leaf":   true,
	"leaves": true,
}

type indexEntry struct {
	plantID string
	token   string
}

// Detector resolves input text to a plant record.
//
// The fuzzy index is built from catalog names and aliases at construction
// time. After a catalog mutation, RebuildIndex must be called under the same
// single-writer discipline as the mutation itself; concurrent Detect calls
// meanwhile see a stale but consistent index (new plants are still found by
// the exact and alias passes, which read the catalog directly).
type Detector struct {
	catalog   *catalog.Catalog
	threshold float64 // minimum similarity for a fuzzy hit

	mu           sync.RWMutex
	index        []indexEntry
	indexVersion uint64
}

// New creates a detector over the given catalog. threshold is the minimum
// similarity (1 minus normalized Levenshtein distance) for a fuzzy hit; the
// match score is that similarity.
func New(cat *catalog.Catalog, threshold float64) *Detector {
	d := &Detector{catalog: cat, threshold: threshold}
	d.RebuildIndex()
	return d
}

// Detect returns the best-matching plant for the input text. It never
// returns an empty match.
func (d *Detector) Detect(text string) Match {
	input := strings.ToLower(strings.TrimSpace(text))
	inputWords := strings.Fields(input)
	plants := d.catalog.Plants()

	if len(inputWords) > 0 {
		// Pass 1: exact name match. Every name word must equal or be
		// contained in some input word. First satisfying plant wins, in
		// catalog order.
		for _, p := range plants {
			if nameMatches(p.Name, inputWords) {
				return Match{Plant: p, Score: exactScore, Method: MethodPlantName}
			}
		}

		// Pass 2: alias match.
		for _, p := range plants {
			for _, alias := range p.Aliases {
				if len(alias) <= 2 {
					continue
				}
				la := strings.ToLower(alias)
				if strings.Contains(input, la) && nameMatches(alias, inputWords) {
					return Match{Plant: p, Score: aliasScore, Method: MethodAlias}
				}
			}
		}

		// Pass 3: fuzzy match over the name/alias token index.
		if m, ok := d.fuzzyMatch(inputWords); ok {
			return m
		}
	}

	return Match{Plant: d.catalog.Generic(), Score: fallbackScore, Method: MethodFallback}
}

// nameMatches reports whether every word of name equals or is a substring of
// some input word.
func nameMatches(name string, inputWords []string) bool {
	for _, nw := range strings.Fields(strings.ToLower(name)) {
		found := false
		for _, iw := range inputWords {
			if nw == iw || strings.Contains(iw, nw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// fuzzyMatch scans the token index for the input word most similar to any
// indexed token. Similarity must clear the threshold strictly, so borderline
// noise words stay on the fallback path.
func (d *Detector) fuzzyMatch(inputWords []string) (Match, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	bestSim := d.threshold
	bestID := ""
	for _, e := range d.index {
		for _, w := range inputWords {
			if len(w) <= 3 || fuzzyStopwords[w] {
				continue
			}
			sim := 1 - normalizedDistance(w, e.token)
			if sim > bestSim {
				bestSim = sim
				bestID = e.plantID
			}
		}
	}

	if bestID == "" {
		return Match{}, false
	}
	plant, ok := d.catalog.Get(bestID)
	if !ok {
		return Match{}, false
	}
	return Match{Plant: plant, Score: bestSim, Method: MethodFuzzy}, true
}

// RebuildIndex rebuilds the fuzzy token index from the current catalog.
// Must be serialized with catalog mutations. A no-op when the index already
// matches the catalog version.
func (d *Detector) RebuildIndex() {
	version := d.catalog.Version()
	d.mu.RLock()
	current := d.indexVersion
	d.mu.RUnlock()
	if current == version {
		return
	}

	plants := d.catalog.Plants()

	var index []indexEntry
	for _, p := range plants {
		for _, token := range indexTokens(p) {
			index = append(index, indexEntry{plantID: p.ID, token: token})
		}
	}

	d.mu.Lock()
	d.index = index
	d.indexVersion = version
	d.mu.Unlock()
}

// indexTokens extracts the distinguishing tokens of a plant's name and
// aliases. Short and catalog-wide tokens are skipped.
func indexTokens(p catalog.PlantRecord) []string {
	seen := make(map[string]bool)
	var tokens []string
	add := func(s string) {
		for _, w := range strings.Fields(strings.ToLower(s)) {
			if len(w) <= 3 || fuzzyStopwords[w] || seen[w] {
				continue
			}
			seen[w] = true
			tokens = append(tokens, w)
		}
	}
	add(p.Name)
	for _, alias := range p.Aliases {
		add(alias)
	}
	return tokens
}
