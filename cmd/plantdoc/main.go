// Plantdoc is the command-line client for the plant diagnosis engine.
//
// It runs the engine in-process against the embedded catalog, so no daemon
// is needed for one-shot or interactive diagnosis.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
