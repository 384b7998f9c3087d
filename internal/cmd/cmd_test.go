package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// executeCommand runs a cobra command with args and returns captured output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// isolate redirects XDG_CONFIG_HOME/XDG_DATA_HOME to a scratch directory so
// tests never touch the real user config, and resets viper between runs
// since its settings are process-global.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	viper.Reset()
	t.Cleanup(viper.Reset)
	return dir
}

func TestRootCommand_Subcommands(t *testing.T) {
	expected := []string{"init", "stats", "config"}
	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range expected {
		if !have[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestInitCommand_CreatesConfigAndSampleDeck(t *testing.T) {
	isolate(t)
	initConfig()

	if _, err := executeCommand(rootCmd, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfgFile := os.Getenv("XDG_CONFIG_HOME") + "/kbsr/config.toml"
	if _, err := os.Stat(cfgFile); err != nil {
		t.Errorf("config file not created: %v", err)
	}

	deckFile := os.Getenv("XDG_DATA_HOME") + "/kbsr/decks/sample.tsv"
	if _, err := os.Stat(deckFile); err != nil {
		t.Errorf("sample deck not created: %v", err)
	}
}

func TestInitCommand_Idempotent(t *testing.T) {
	isolate(t)
	initConfig()

	if _, err := executeCommand(rootCmd, "init"); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if _, err := executeCommand(rootCmd, "init"); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
}

func TestConfigCommand_PrintsResolvedConfig(t *testing.T) {
	isolate(t)
	initConfig()

	output, err := executeCommand(rootCmd, "config")
	if err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	if !bytes.Contains([]byte(output), []byte("max_attempts")) {
		t.Errorf("config output missing expected field:\n%s", output)
	}
}

func TestStatsCommand_NoDecks(t *testing.T) {
	isolate(t)
	initConfig()

	output, err := executeCommand(rootCmd, "stats")
	if err != nil {
		t.Fatalf("stats command failed: %v", err)
	}
	if !bytes.Contains([]byte(output), []byte("0 cards due")) {
		t.Errorf("expected zero due cards with no decks present:\n%s", output)
	}
}
