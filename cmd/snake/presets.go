package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/adaptive-snake/internal/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List difficulty presets",
	Long:  `Shows the starting difficulty presets accepted by --preset.`,
	Run:   runPresets,
}

func runPresets(_ *cobra.Command, _ []string) {
	presets := config.Presets()

	fmt.Println("Difficulty presets:")
	fmt.Println()

	// Calculate column widths
	maxLen := 6 // "Preset" header
	for _, p := range presets {
		if len(p.Preset) > maxLen {
			maxLen = len(p.Preset)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxLen, "Preset", "Description")
	fmt.Printf("  %-*s  %s\n", maxLen, "------", "-----------")

	for _, p := range presets {
		fmt.Printf("  %-*s  %s\n", maxLen, p.Preset, p.Description)
	}

	fmt.Println()
	fmt.Println("Run 'snake play --preset <name>' to start with a preset.")
}
