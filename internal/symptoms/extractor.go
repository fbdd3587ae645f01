// Package symptoms extracts ranked symptom matches from free-text input.
//
// The extractor scores each candidate symptom phrase against the input with
// layered heuristics: exact phrase containment short-circuits at full weight;
// otherwise partial word overlap, whole-word containment, and semantic group
// hits accumulate additively. Scores are clamped to [0, 1] at every stage.
package symptoms

import (
	"sort"
	"strings"

	"github.com/verdantlabs/plantdoc/internal/catalog"
)

// Source tags where a matched symptom came from.
type Source string

const (
	SourcePlantSpecific   Source = "plant_specific"
	SourceGeneric         Source = "generic"
	SourceEnhancedDirect  Source = "enhanced_direct"
	SourceEnhancedPartial Source = "enhanced_partial"
)

// MatchType tags which heuristic produced the dominant share of a match.
type MatchType string

const (
	TypeExact     MatchType = "exact"
	TypePartial   MatchType = "partial"
	TypeSubstring MatchType = "substring"
	TypeSemantic  MatchType = "semantic"
)

// Scoring model constants. Named so the model is tunable without touching
// control flow.
const (
	exactWeight         = 1.0
	partialWordWeight   = 0.3
	substringWordWeight = 0.5
	semanticGroupWeight = 0.4
	retainThreshold     = 0.2
	enhancedDirectWt    = 1.0
	enhancedPartialWt   = 0.7

	// MaxMatches caps the primary symptom list.
	MaxMatches = 10
)

// Match is one scored symptom.
type Match struct {
	Symptom   string    `json:"symptom"`
	Source    Source    `json:"source"`
	Weight    float64   `json:"weight"`
	MatchType MatchType `json:"match_type"`
}

// Extractor scores symptom candidates. It holds no per-request state.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns up to MaxMatches symptom matches for the input, sorted by
// weight descending and deduplicated by symptom text. The candidate pool is
// the detected plant's symptom list concatenated with the generic record's.
func (e *Extractor) Extract(text string, plant, generic catalog.PlantRecord) []Match {
	input := strings.ToLower(text)
	inputWords := strings.Fields(input)
	if len(inputWords) == 0 {
		return nil
	}

	type candidate struct {
		symptom string
		source  Source
	}
	var pool []candidate
	if !plant.IsGeneric() {
		for _, s := range plant.Symptoms {
			pool = append(pool, candidate{symptom: s, source: SourcePlantSpecific})
		}
	}
	for _, s := range generic.Symptoms {
		pool = append(pool, candidate{symptom: s, source: SourceGeneric})
	}

	var matches []Match
	for _, c := range pool {
		weight, matchType, ok := scoreCandidate(c.symptom, input, inputWords)
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Symptom:   c.symptom,
			Source:    c.source,
			Weight:    weight,
			MatchType: matchType,
		})
	}

	// Deduplicate by symptom text, keeping the highest-weight occurrence.
	// The plant's own list comes first in the pool, so on equal weight the
	// plant-specific entry wins.
	best := make(map[string]int, len(matches))
	deduped := matches[:0]
	for _, m := range matches {
		key := strings.ToLower(m.Symptom)
		if idx, seen := best[key]; seen {
			if m.Weight > deduped[idx].Weight {
				deduped[idx] = m
			}
			continue
		}
		best[key] = len(deduped)
		deduped = append(deduped, m)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Weight > deduped[j].Weight
	})

	if len(deduped) > MaxMatches {
		deduped = deduped[:MaxMatches]
	}
	return deduped
}

// Enhanced re-scans the plant's own symptom list for direct or partial
// containment. Used only as a confidence booster by the cause scorer; never
// merged into the primary list.
func (e *Extractor) Enhanced(text string, plant catalog.PlantRecord) []Match {
	input := strings.ToLower(text)
	if strings.TrimSpace(input) == "" {
		return nil
	}

	var matches []Match
	for _, s := range plant.Symptoms {
		ls := strings.ToLower(s)
		if strings.Contains(input, ls) {
			matches = append(matches, Match{
				Symptom:   s,
				Source:    SourceEnhancedDirect,
				Weight:    enhancedDirectWt,
				MatchType: TypeExact,
			})
			continue
		}
		for _, w := range strings.Fields(ls) {
			if len(w) > 2 && strings.Contains(input, w) {
				matches = append(matches, Match{
					Symptom:   s,
					Source:    SourceEnhancedPartial,
					Weight:    enhancedPartialWt,
					MatchType: TypePartial,
				})
				break
			}
		}
	}
	return matches
}

// scoreCandidate scores one symptom phrase against the input. Returns false
// when the accumulated weight does not clear the retain threshold.
func scoreCandidate(symptom, input string, inputWords []string) (float64, MatchType, bool) {
	ls := strings.ToLower(symptom)

	// Exact phrase containment short-circuits all other scoring.
	if strings.Contains(input, ls) {
		return exactWeight, TypeExact, true
	}

	var partial, substr, semantic float64
	symptomWords := strings.Fields(ls)

	for _, sw := range symptomWords {
		if len(sw) <= 2 {
			continue
		}
		for _, iw := range inputWords {
			if strings.Contains(iw, sw) || strings.Contains(sw, iw) {
				partial += partialWordWeight
				break
			}
		}
	}

	for _, sw := range symptomWords {
		if len(sw) > 3 && strings.Contains(input, sw) {
			substr += substringWordWeight
		}
	}

	for _, group := range semanticGroups {
		if containsAny(ls, group) && containsAny(input, group) {
			semantic += semanticGroupWeight
		}
	}

	weight := clamp01(partial + substr + semantic)
	if weight <= retainThreshold {
		return 0, "", false
	}

	return weight, dominantType(partial, substr, semantic), true
}

// dominantType picks the heuristic that contributed the most weight. Ties
// favor the stronger per-hit heuristic.
func dominantType(partial, substr, semantic float64) MatchType {
	switch {
	case substr >= semantic && substr >= partial:
		return TypeSubstring
	case semantic >= partial:
		return TypeSemantic
	default:
		return TypePartial
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
