package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/plantdoc/internal/catalog"
	"github.com/verdantlabs/plantdoc/internal/config"
	"github.com/verdantlabs/plantdoc/internal/engine"
	"github.com/verdantlabs/plantdoc/internal/logging"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "plantdoc",
	Short: "Diagnose houseplant problems from a plain-text description",
	Long: `plantdoc turns a free-text description of a struggling houseplant into
ranked probable causes with explanations and care actions.

Examples:
  plantdoc diagnose "my snake plant has yellow mushy leaves"
  echo "droopy leaves and dry soil" | plantdoc diagnose
  plantdoc diagnose          # interactive prompt loop
  plantdoc plants            # list known plants`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.config/plantdoc/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(plantsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("plantdoc\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

// newEngine loads configuration and builds an in-process engine. The CLI
// logs to stderr at error level unless --verbose is set, so diagnosis
// output on stdout stays clean.
func newEngine() (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg := cfg.Logging
	logCfg.Level = "error"
	logCfg.Format = "console"
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var cat *catalog.Catalog
	if cfg.Engine.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.Engine.CatalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load plant catalog: %w", err)
	}

	eng, err := engine.New(cat, cfg.Engine, logger.Named("engine"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	return eng, cfg, nil
}
