package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/dbalmain/kbsr/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the fully resolved configuration (defaults + file + env)",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", errs)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", config.ConfigFile(), data)
	return nil
}
