package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/plantdoc/internal/engine"
)

var jsonOutput bool

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [description...]",
	Short: "Diagnose a plant problem from a free-text description",
	Long: `Diagnose takes a description of what's wrong with your plant and prints
ranked probable causes with suggested actions.

The description comes from arguments, piped stdin, or an interactive
prompt loop when neither is given.`,
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw result as JSON")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return diagnoseOnce(cmd, eng, strings.Join(args, " "))
	}

	// Piped input is a one-shot diagnosis; a terminal gets the prompt loop.
	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		return diagnoseOnce(cmd, eng, string(data))
	}

	return diagnoseLoop(cmd, eng)
}

func diagnoseOnce(cmd *cobra.Command, eng *engine.Engine, text string) error {
	result := eng.Diagnose(cmd.Context(), text)
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), result)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatResult(result))
	return nil
}

func diagnoseLoop(cmd *cobra.Command, eng *engine.Engine) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Describe your plant's problem (empty line or Ctrl-D to quit).")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return nil
		}
		result := eng.Diagnose(cmd.Context(), line)
		fmt.Fprint(out, formatResult(result))
	}
}
