package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available modes",
	Long:  `Display all modes with their round lengths.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	modes, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Available modes:")
	fmt.Println()

	for _, info := range registry.List() {
		cfg, err := modes.Mode(info.ID)
		if err != nil {
			continue
		}
		fmt.Printf("  %-16s %-18s %s\n", info.ID, cfg.Title, describeMode(cfg))
	}

	fmt.Println()
	fmt.Println("Play with: poppy play <mode>")
}

func describeMode(cfg config.ModeConfig) string {
	if !cfg.Timed() {
		return "untimed"
	}
	if cfg.Daily || len(cfg.Durations) == 0 {
		return fmt.Sprintf("%ds", cfg.Duration)
	}
	parts := make([]string, len(cfg.Durations))
	for i, d := range cfg.Durations {
		parts[i] = fmt.Sprintf("%ds", d)
	}
	return strings.Join(parts, " / ")
}
