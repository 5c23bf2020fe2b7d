package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thxaman/flappy-lidar/internal/registry"
)

var frontendsCmd = &cobra.Command{
	Use:   "frontends",
	Short: "List available front-ends",
	Long:  `Shows the front-ends that 'flappy play --frontend' accepts.`,
	Args:  cobra.NoArgs,
	Run:   runFrontends,
}

func runFrontends(_ *cobra.Command, _ []string) {
	frontends := registry.List()

	if len(frontends) == 0 {
		fmt.Println("No front-ends available.")
		return
	}

	fmt.Println("Available front-ends:")
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, f := range frontends {
		maxNameLen = max(maxNameLen, len(f.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, f := range frontends {
		marker := ""
		if f.Name == cfg.Frontend {
			marker = " (default)"
		}
		fmt.Printf("  %-*s  %s%s\n", maxNameLen, f.Name, f.Description, marker)
	}

	fmt.Println()
	fmt.Println("Run 'flappy play --frontend <name>' to use one.")
}
