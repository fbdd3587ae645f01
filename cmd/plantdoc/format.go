package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/verdantlabs/plantdoc/internal/engine"
)

// formatResult renders a diagnosis result for terminal output.
func formatResult(r *engine.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n🌱 %s", r.PlantName))
	if r.PlantMatchScore > 0 {
		b.WriteString(fmt.Sprintf("  (match: %.0f%%)", r.PlantMatchScore*100))
	}
	b.WriteString("\n")

	if len(r.Symptoms) > 0 {
		names := make([]string, 0, len(r.Symptoms))
		for _, s := range r.Symptoms {
			names = append(names, s.Symptom)
		}
		b.WriteString(fmt.Sprintf("Symptoms: %s\n", strings.Join(names, ", ")))
	}

	for i, d := range r.Diagnoses {
		b.WriteString(fmt.Sprintf("\n%d. %s  [%s confidence: %.0f%%]\n",
			i+1, d.Cause.Label, confidenceBar(d.Confidence), d.Confidence*100))
		b.WriteString(fmt.Sprintf("   %s\n", d.Why))
		for _, action := range d.Actions {
			b.WriteString(fmt.Sprintf("   • %s\n", action))
		}
		if d.EcoTip != "" {
			b.WriteString(fmt.Sprintf("   ♻ %s\n", d.EcoTip))
		}
	}

	return b.String()
}

// confidenceBar returns a five-slot bar like "███░░" for quick visual
// comparison between ranked causes.
func confidenceBar(confidence float64) string {
	filled := int(confidence * 5)
	if filled > 5 {
		filled = 5
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 5-filled)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
