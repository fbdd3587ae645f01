package causes

import (
	"fmt"
	"strings"

	"github.com/verdantlabs/plantdoc/internal/catalog"
)

// lastResortPatterns are fixed keyword groups used only when ordinary cause
// scoring yields zero diagnoses. Evaluation order is fixed: the first group
// with any keyword present in the input wins.
var lastResortPatterns = []struct {
	id       string
	label    string
	keywords []string
}{
	{
		id:       "underwatering",
		label:    "Possible underwatering",
		keywords: []string{"dry", "crispy", "drooping", "wilting", "brittle", "parched"},
	},
	{
		id:       "overwatering",
		label:    "Possible overwatering",
		keywords: []string{"wet", "soggy", "mushy", "yellow", "damp"},
	},
	{
		id:       "light_issues",
		label:    "Possible light problems",
		keywords: []string{"pale", "leggy", "stretching", "leaning", "faded"},
	},
	{
		id:       "pests",
		label:    "Possible pest problem",
		keywords: []string{"bugs", "spots", "sticky", "webbing", "holes"},
	},
}

// descriptorWords are common symptom descriptors quoted back to the user in
// a last-resort explanation.
var descriptorWords = []string{
	"yellow", "brown", "dry", "wilting", "drooping", "spots", "mushy",
}

// lastResortDiagnosis tests the fixed pattern groups against the input and
// returns a synthetic diagnosis for the first match.
func lastResortDiagnosis(plant catalog.PlantRecord, input string) (Diagnosis, bool) {
	for _, p := range lastResortPatterns {
		hit := false
		for _, kw := range p.keywords {
			if strings.Contains(input, kw) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}

		return Diagnosis{
			Cause: catalog.Cause{
				ID:       p.id,
				Label:    p.label,
				Keywords: p.keywords,
			},
			Confidence: lastResortConfidence,
			Why:        lastResortExplanation(p.label, input),
			Actions:    resolveActions(plant, p.id),
			EcoTip:     plant.EcoTip,
		}, true
	}
	return Diagnosis{}, false
}

// lastResortExplanation names the common descriptor words found in the input.
func lastResortExplanation(label, input string) string {
	var found []string
	for _, w := range descriptorWords {
		if strings.Contains(input, w) {
			found = append(found, w)
		}
	}
	if len(found) == 0 {
		return fmt.Sprintf("%s based on the overall description.", label)
	}
	return fmt.Sprintf("%s based on the words %s in your description.", label, quoteJoin(found))
}
