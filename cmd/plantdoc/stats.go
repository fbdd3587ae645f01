package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verdantlabs/plantdoc/internal/config"
	"github.com/verdantlabs/plantdoc/internal/history"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated interaction statistics",
	Long: `Stats summarizes the local interaction history: how many diagnoses
have run, which plants were detected, and which causes came up.

Requires history to be enabled in the configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if !cfg.History.Enabled {
			return fmt.Errorf("interaction history is disabled; set history.enabled: true")
		}

		hist, err := history.New(cfg.History.Path, zap.NewNop())
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer hist.Close()

		stats, err := hist.Stats()
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total interactions: %d\n", stats.TotalInteractions)

		printCounts(out, "By plant", stats.ByPlant)
		printCounts(out, "By cause", stats.ByCause)
		printCounts(out, "By detection method", stats.ByMethod)
		return nil
	},
}

func printCounts(out io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(out, "\n%s:\n", title)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t%d\n", k, counts[k])
	}
	_ = w.Flush()
}
