// Package causes turns matched symptoms and keyword hits into a ranked list
// of diagnoses.
//
// Each invocation is a pure function of (plant, symptoms, enhanced symptoms,
// text, config); the scorer holds no per-request state. Confidence math is
// clamped to [0, 1] at each stage so runaway values cannot cascade.
package causes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verdantlabs/plantdoc/internal/catalog"
	"github.com/verdantlabs/plantdoc/internal/symptoms"
)

// Confidence model constants.
const (
	// matchFloor is the minimum confidence assigned whenever any pattern at
	// all was detected for a cause.
	matchFloor = 0.3
	// unclearConfidence is the fixed confidence of the "unclear symptoms"
	// sentinel diagnosis.
	unclearConfidence = 0.2
	// lastResortConfidence is the fixed confidence of a pattern-detector
	// diagnosis.
	lastResortConfidence = 0.4
	// symptomBaseline normalizes average symptom scores toward an assumed
	// three-symptom description.
	symptomBaseline = 3
)

// CauseUnclear is the cause id of the "unclear symptoms" sentinel.
const CauseUnclear = "unclear_symptoms"

// Config holds the tunable weights of the scoring model.
type Config struct {
	MinConfidence      float64
	MaxDiagnoses       int
	PlantMatchWeight   float64
	SymptomMatchWeight float64
}

// Diagnosis is one ranked probable cause with guidance.
type Diagnosis struct {
	Cause      catalog.Cause `json:"cause"`
	Confidence float64       `json:"confidence"`
	Why        string        `json:"why"`
	Actions    []string      `json:"actions"`
	EcoTip     string        `json:"eco_tip,omitempty"`
}

// genericChecklist is the fallback action list when a plant has no solutions
// for a cause and no watering_issues entry either.
var genericChecklist = []string{
	"Check soil moisture and adjust your watering routine",
	"Inspect leaves and stems, including undersides, for pests",
	"Review the plant's light exposure against its needs",
	"Make sure the pot drains and the roots have room",
}

// Scorer ranks causes for a detected plant.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer with the given weights.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score returns diagnoses sorted by confidence descending, truncated to the
// configured maximum. The list is never empty: with no symptom evidence the
// "unclear symptoms" sentinel is returned, and when cause scoring yields
// nothing the last-resort pattern detector runs.
func (s *Scorer) Score(plant catalog.PlantRecord, matched, enhanced []symptoms.Match, text string) []Diagnosis {
	if len(matched) == 0 && len(enhanced) == 0 {
		return []Diagnosis{unclearDiagnosis(plant)}
	}

	input := strings.ToLower(text)
	symptomComponent := (avgSymptomScore(matched) + avgSymptomScore(enhanced)) / 2

	var diagnoses []Diagnosis
	for _, cause := range plant.Causes {
		allMatches := matchKeywords(cause.Keywords, input)
		if len(allMatches) == 0 && !plant.IsGeneric() {
			continue
		}

		keywordCount := len(cause.Keywords)
		if keywordCount < 1 {
			keywordCount = 1
		}
		ratio := float64(len(allMatches)) / float64(keywordCount)

		confidence := s.cfg.PlantMatchWeight*ratio + s.cfg.SymptomMatchWeight*symptomComponent
		if confidence > 1.0 {
			confidence = 1.0
		}
		if confidence < matchFloor {
			confidence = matchFloor
		}

		if confidence < s.cfg.MinConfidence {
			continue
		}

		diagnoses = append(diagnoses, Diagnosis{
			Cause:      cause,
			Confidence: confidence,
			Why:        buildExplanation(cause, allMatches, enhanced),
			Actions:    resolveActions(plant, cause.ID),
			EcoTip:     plant.EcoTip,
		})
	}

	if len(diagnoses) == 0 {
		if d, ok := lastResortDiagnosis(plant, input); ok {
			diagnoses = append(diagnoses, d)
		} else {
			diagnoses = append(diagnoses, unclearDiagnosis(plant))
		}
	}

	sort.SliceStable(diagnoses, func(i, j int) bool {
		return diagnoses[i].Confidence > diagnoses[j].Confidence
	})
	if s.cfg.MaxDiagnoses > 0 && len(diagnoses) > s.cfg.MaxDiagnoses {
		diagnoses = diagnoses[:s.cfg.MaxDiagnoses]
	}
	return diagnoses
}

// matchKeywords returns the cause keywords found in the input, either as a
// literal phrase or through an individual word longer than two characters.
// The literal and partial sets are merged with duplicates removed, literal
// hits first.
func matchKeywords(keywords []string, input string) []string {
	var all []string
	seen := make(map[string]bool, len(keywords))

	for _, kw := range keywords {
		if strings.Contains(input, strings.ToLower(kw)) && !seen[kw] {
			seen[kw] = true
			all = append(all, kw)
		}
	}
	for _, kw := range keywords {
		if seen[kw] {
			continue
		}
		for _, w := range strings.Fields(strings.ToLower(kw)) {
			if len(w) > 2 && strings.Contains(input, w) {
				seen[kw] = true
				all = append(all, kw)
				break
			}
		}
	}
	return all
}

// avgSymptomScore averages match weights against an assumed three-symptom
// baseline, so one strong match does not dominate.
func avgSymptomScore(matches []symptoms.Match) float64 {
	if len(matches) == 0 {
		return 0
	}
	var sum float64
	for _, m := range matches {
		sum += m.Weight
	}
	n := len(matches)
	if n < symptomBaseline {
		n = symptomBaseline
	}
	return sum / float64(n)
}

// buildExplanation lists up to 3 matched keywords and up to 2 enhanced
// symptom names, or falls back to a generic sentence naming the cause label.
func buildExplanation(cause catalog.Cause, matchedKeywords []string, enhanced []symptoms.Match) string {
	if len(matchedKeywords) == 0 {
		return fmt.Sprintf("%s is a common issue for houseplants showing general distress.", cause.Label)
	}

	kws := matchedKeywords
	if len(kws) > 3 {
		kws = kws[:3]
	}
	var b strings.Builder
	b.WriteString("Your description mentions ")
	b.WriteString(quoteJoin(kws))

	if len(enhanced) > 0 {
		names := make([]string, 0, 2)
		for _, m := range enhanced {
			names = append(names, m.Symptom)
			if len(names) == 2 {
				break
			}
		}
		b.WriteString(", matching known symptoms: ")
		b.WriteString(strings.Join(names, ", "))
	}
	b.WriteString(".")
	return b.String()
}

// resolveActions picks the plant's solution list for the cause, falling back
// to its watering_issues solutions, then to the generic checklist.
func resolveActions(plant catalog.PlantRecord, causeID string) []string {
	if actions, ok := plant.Solutions[causeID]; ok && len(actions) > 0 {
		return actions
	}
	if actions, ok := plant.Solutions["watering_issues"]; ok && len(actions) > 0 {
		return actions
	}
	return genericChecklist
}

// unclearDiagnosis is the fixed sentinel returned when no symptom evidence
// exists at all.
func unclearDiagnosis(plant catalog.PlantRecord) Diagnosis {
	return Diagnosis{
		Cause: catalog.Cause{
			ID:    CauseUnclear,
			Label: "Unclear symptoms",
		},
		Confidence: unclearConfidence,
		Why:        "The description did not clearly match any known symptoms. A general health check is the best next step.",
		Actions:    genericChecklist,
		EcoTip:     plant.EcoTip,
	}
}

func quoteJoin(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = `"` + w + `"`
	}
	return strings.Join(quoted, ", ")
}
