package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration play would use, after applying the config file,
difficulty preset and grid flags, as YAML. Warnings about grids that can
never be cleared are logged to stderr.

Examples:
  memory config
  memory config --difficulty triples > ~/.memory/configs/memory.yaml`,
	Run: runConfig,
}

func init() {
	addConfigFlags(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	out, err := config.Marshal(cfg)
	if err != nil {
		fail("%v", err)
	}
	os.Stdout.Write(out)
}
