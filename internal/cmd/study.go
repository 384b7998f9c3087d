package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dbalmain/kbsr/internal/applock"
	"github.com/dbalmain/kbsr/internal/clock"
	"github.com/dbalmain/kbsr/internal/config"
	"github.com/dbalmain/kbsr/internal/logging"
	"github.com/dbalmain/kbsr/internal/store"
	"github.com/dbalmain/kbsr/internal/tui"
)

// runStudy is the root command's default action: open the store, acquire
// the single-instance lock, and run the study TUI until the user quits. The
// TUI itself requests the terminal's keyboard-enhancement layer through
// Bubble Tea's renderer once the program is running (internal/terminal).
func runStudy(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		return fmt.Errorf("invalid config: %w", errs)
	}

	logger, err := logging.NewLogger(config.DataDir(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer func() { _ = logger.Close() }()

	lock, err := applock.Acquire(cfg.DBPath, logger)
	if err != nil {
		if errors.Is(err, applock.ErrLocked) {
			return fmt.Errorf("kbsr is already running against %s", cfg.DBPath)
		}
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer func() { _ = lock.Release() }()

	if err := os.MkdirAll(cfg.DecksDir, 0755); err != nil {
		return fmt.Errorf("creating decks dir: %w", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	model := tui.New(cfg, db, logger, clock.Real{}.Now)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
