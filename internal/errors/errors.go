// Package errors provides the domain error taxonomy used throughout kbsr.
// It defines the error kinds named in the error handling design (InvalidKeybind,
// DeckParse, Storage, StorageHistoryCorruption, Terminal, Io), constructors with
// context wrapping, and classification helpers callers use instead of string
// matching.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers only need this package for
// error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// KbsrError is the base interface for all kbsr errors.
type KbsrError interface {
	error

	Unwrap() error
	Is(target error) bool
	Severity() Severity

	// IsRetryable returns true if the operation may succeed if retried
	// unchanged (e.g. a transient storage error).
	IsRetryable() bool

	// IsUserFacing returns true if the message is safe to print to stderr
	// as-is, without being rephrased for the user.
	IsUserFacing() bool
}

// baseError provides the common fields and methods shared by every kind below.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error { return e.cause }

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) IsRetryable() bool  { return e.retryable }
func (e *baseError) IsUserFacing() bool { return e.userFacing }

// -----------------------------------------------------------------------------
// InvalidKeybind — an unparseable keybind expression (deck line or config chord).
// -----------------------------------------------------------------------------

// InvalidKeybindError is returned by keybind parsing (internal/keybind.Parse)
// and by config chord resolution (pause_keybind, quit_keybind).
type InvalidKeybindError struct {
	baseError
	Expr     string
	Reason   string
	Position int
}

// NewInvalidKeybindError creates an InvalidKeybindError. Non-fatal at deck
// level (the caller skips the line and reports it); fatal at config level
// unless the caller applies a documented fallback.
func NewInvalidKeybindError(expr, reason string, position int) *InvalidKeybindError {
	return &InvalidKeybindError{
		baseError: baseError{
			message:    fmt.Sprintf("invalid keybind %q: %s", expr, reason),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Expr:     expr,
		Reason:   reason,
		Position: position,
	}
}

func (e *InvalidKeybindError) Is(target error) bool {
	if _, ok := target.(*InvalidKeybindError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// DeckParse — a malformed TSV line in a deck file.
// -----------------------------------------------------------------------------

// DeckParseError represents one malformed line encountered while parsing a
// deck file. The line is skipped; the rest of the file proceeds.
type DeckParseError struct {
	baseError
	Deck string
	Line int
	Text string
}

func NewDeckParseError(deck string, line int, text, reason string) *DeckParseError {
	return &DeckParseError{
		baseError: baseError{
			message:    fmt.Sprintf("%s:%d: %s", deck, line, reason),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Deck: deck,
		Line: line,
		Text: text,
	}
}

func (e *DeckParseError) Is(target error) bool {
	if _, ok := target.(*DeckParseError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Storage — a database error (open, query, transaction).
// -----------------------------------------------------------------------------

// StorageError wraps a database-layer failure. The caller aborts the current
// transaction and bubbles the error; a corrupted `due` column is deliberately
// not represented by this type (it degrades to "due now" instead, see
// internal/store).
type StorageError struct {
	baseError
	Op string
}

func NewStorageError(op string, cause error) *StorageError {
	return &StorageError{
		baseError: baseError{
			message:    fmt.Sprintf("storage error during %s", op),
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: false,
		},
		Op: op,
	}
}

func (e *StorageError) Is(target error) bool {
	if _, ok := target.(*StorageError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// StorageHistoryCorruption — an unparseable reviews.timestamp value.
// -----------------------------------------------------------------------------

// StorageHistoryCorruptionError is distinct from StorageError: it is never
// treated as a due-date degradation, because review history is an append-only
// audit log, not a schedulable value with a sane fallback.
type StorageHistoryCorruptionError struct {
	baseError
	CardID int64
	Raw    string
}

func NewStorageHistoryCorruptionError(cardID int64, raw string, cause error) *StorageHistoryCorruptionError {
	return &StorageHistoryCorruptionError{
		baseError: baseError{
			message:    fmt.Sprintf("corrupt review timestamp %q for card %d", raw, cardID),
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		CardID: cardID,
		Raw:    raw,
	}
}

func (e *StorageHistoryCorruptionError) Is(target error) bool {
	if _, ok := target.(*StorageHistoryCorruptionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Terminal — inability to push/pop keyboard enhancement flags.
// -----------------------------------------------------------------------------

// TerminalError is logged and the session continues with degraded input;
// mode-stack state must not record a layer whose push produced this error.
type TerminalError struct {
	baseError
	Op string
}

func NewTerminalError(op string, cause error) *TerminalError {
	return &TerminalError{
		baseError: baseError{
			message:    fmt.Sprintf("terminal %s failed", op),
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: false,
		},
		Op: op,
	}
}

func (e *TerminalError) Is(target error) bool {
	if _, ok := target.(*TerminalError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Io — the deck directory is unreadable.
// -----------------------------------------------------------------------------

// IoError is fatal when no decks can be loaded as a result.
type IoError struct {
	baseError
	Path string
}

func NewIoError(path string, cause error) *IoError {
	return &IoError{
		baseError: baseError{
			message:    fmt.Sprintf("cannot read %s", path),
			cause:      cause,
			severity:   SeverityCritical,
			retryable:  false,
			userFacing: true,
		},
		Path: path,
	}
}

func (e *IoError) Is(target error) bool {
	if _, ok := target.(*IoError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the operation may succeed unchanged on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var kbsrErr KbsrError
	if As(err, &kbsrErr) {
		return kbsrErr.IsRetryable()
	}
	return false
}

// IsUserFacing returns true if the error message is safe to print as-is.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var kbsrErr KbsrError
	if As(err, &kbsrErr) {
		return kbsrErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity of err, defaulting to SeverityError for
// errors that don't implement KbsrError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var kbsrErr KbsrError
	if As(err, &kbsrErr) {
		return kbsrErr.Severity()
	}
	return SeverityError
}

// IsDegradable reports whether err represents a condition the caller is
// expected to recover from locally (a skipped deck line or an unparseable
// keybind) rather than propagate: it matches DeckParseError and
// InvalidKeybindError only.
func IsDegradable(err error) bool {
	var deckErr *DeckParseError
	var keybindErr *InvalidKeybindError
	return As(err, &deckErr) || As(err, &keybindErr)
}

// Wrap wraps an error with additional context, preserving Is/As chains.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
