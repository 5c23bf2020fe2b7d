package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thxaman/flappy-lidar/internal/config"
)

var flagSave bool

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Show or save the resolved configuration",
	Long: `Print the configuration after files, environment and flags are applied.
With --save, write it to path (default: ~/.flappy/config.yaml) instead.

Examples:
  flappy config
  flappy config --seed 42 --save
  flappy config --save ./configs/flappy.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagSave, "save", false, "Write the configuration to a file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, args []string) error {
	if !flagSave {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	path := config.UserPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no home directory; pass a path to save to")
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Println("Saved configuration to", path)
	return nil
}
