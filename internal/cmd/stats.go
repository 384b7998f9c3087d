package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbalmain/kbsr/internal/config"
	"github.com/dbalmain/kbsr/internal/deck"
	"github.com/dbalmain/kbsr/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show due-card counts per deck without starting a session",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.DecksDir, 0755); err != nil {
		return fmt.Errorf("creating decks dir: %w", err)
	}

	decks, warnings, err := deck.ParseDir(cfg.DecksDir)
	if err != nil {
		return fmt.Errorf("reading decks: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.SyncDecks(decks); err != nil {
		return fmt.Errorf("syncing decks: %w", err)
	}

	due, err := db.DueCards(time.Now())
	if err != nil {
		return fmt.Errorf("querying due cards: %w", err)
	}

	counts := make(map[string]int, len(decks))
	for _, c := range due {
		counts[c.DeckName]++
	}

	names := make([]string, 0, len(decks))
	for _, d := range decks {
		names = append(names, d.Name)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	total := 0
	for _, name := range names {
		n := counts[name]
		total += n
		fmt.Fprintf(out, "%-20s %d due\n", name, n)
	}
	fmt.Fprintf(out, "\n%d cards due across %d decks\n", total, len(names))
	return nil
}
