package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/dbalmain/kbsr/internal/config"
)

var sampleDeck = `# mode: raw
Ctrl+S	Save the current file
Ctrl+W	Close the current window
Ctrl+C	Copy the selection
Ctrl+V	Paste the clipboard
Ctrl+Z	Undo the last change
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file and a sample deck to get started",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.MkdirAll(cfg.DecksDir, 0755); err != nil {
		return fmt.Errorf("creating decks dir: %w", err)
	}

	out := cmd.OutOrStdout()

	cfgFile := config.ConfigFile()
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding default config: %w", err)
		}
		if err := os.WriteFile(cfgFile, data, 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(out, "wrote %s\n", cfgFile)
	} else {
		fmt.Fprintf(out, "%s already exists, leaving it alone\n", cfgFile)
	}

	samplePath := filepath.Join(cfg.DecksDir, "sample.tsv")
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		if err := os.WriteFile(samplePath, []byte(sampleDeck), 0644); err != nil {
			return fmt.Errorf("writing sample deck: %w", err)
		}
		fmt.Fprintf(out, "wrote %s\n", samplePath)
	} else {
		fmt.Fprintf(out, "%s already exists, leaving it alone\n", samplePath)
	}

	fmt.Fprintln(out, "run `kbsr` to start studying")
	return nil
}
