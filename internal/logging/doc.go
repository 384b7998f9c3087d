// Package logging provides structured logging for kbsr training sessions.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation (session, deck, card) for debugging deck sync and
// scheduling behavior after the fact.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (session ID, deck name, card id)
//   - Log rotation with configurable size limits
//   - Optional gzip compression for rotated logs
//
// # Thread Safety
//
// All types in this package are safe for concurrent use, though the engine
// itself is single-threaded (see the concurrency model in SPEC_FULL.md).
// The [Logger] type uses slog internally; [RotatingWriter] uses a mutex to
// protect file operations during rotation.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/session", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Debug("matcher progressed", "index", 2)
//	logger.Info("card scored", "rating", "good")
//	logger.Warn("deck line skipped", "deck", "vim", "line", 14)
//	logger.Error("deck sync failed", "error", err.Error())
//
// # Context Propagation
//
//	sessionLogger := logger.WithSession("session-abc123")
//	deckLogger := sessionLogger.WithDeck("vim")
//	cardLogger := deckLogger.WithCard("Ctrl+K Ctrl+C")
//	cardLogger.Info("rated", "rating", "easy")
//
// # Log Rotation
//
//	config := logging.RotationConfig{MaxSizeMB: 10, MaxBackups: 3, Compress: true}
//	logger, err := logging.NewLoggerWithRotation("/path/to/session", "INFO", config)
//
// # Testing
//
//	logger := logging.NopLogger()
package logging
