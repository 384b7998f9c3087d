package config

import (
	"fmt"
	"strings"

	"github.com/dbalmain/kbsr/internal/keybind"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "timeout_secs")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns every
// validation error found. Unlike pause/quit chord resolution (which has a
// documented fallback, see PauseChord/QuitChord), these fields have no
// sane default substitute, so a caller that wants to refuse a bad config
// file should call this explicitly.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, c.validateTimings()...)
	errs = append(errs, c.validateScheduler()...)
	errs = append(errs, c.validateChords()...)
	errs = append(errs, c.validateLogLevel()...)

	return errs
}

func (c *Config) validateTimings() ValidationErrors {
	var errs ValidationErrors

	if c.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field: "timeout_secs", Value: c.TimeoutSecs,
			Message: "must be positive",
		})
	}
	if c.MaxAttempts <= 0 {
		errs = append(errs, ValidationError{
			Field: "max_attempts", Value: c.MaxAttempts,
			Message: "must be positive",
		})
	}
	if c.EasyThresholdMs <= 0 {
		errs = append(errs, ValidationError{
			Field: "easy_threshold_ms", Value: c.EasyThresholdMs,
			Message: "must be positive",
		})
	}
	if c.HardThresholdMs <= 0 {
		errs = append(errs, ValidationError{
			Field: "hard_threshold_ms", Value: c.HardThresholdMs,
			Message: "must be positive",
		})
	}
	if c.HardThresholdMs < c.EasyThresholdMs {
		errs = append(errs, ValidationError{
			Field: "hard_threshold_ms", Value: c.HardThresholdMs,
			Message: fmt.Sprintf("must be at least easy_threshold_ms (%d)", c.EasyThresholdMs),
		})
	}
	if c.SuccessDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field: "success_delay_ms", Value: c.SuccessDelayMs,
			Message: "must be non-negative",
		})
	}
	if c.FailedFlashDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field: "failed_flash_delay_ms", Value: c.FailedFlashDelayMs,
			Message: "must be non-negative",
		})
	}

	return errs
}

func (c *Config) validateScheduler() ValidationErrors {
	var errs ValidationErrors

	if c.DesiredRetention <= 0 || c.DesiredRetention >= 1 {
		errs = append(errs, ValidationError{
			Field: "desired_retention", Value: c.DesiredRetention,
			Message: "must be between 0 and 1 exclusive",
		})
	}
	if c.IntervalModifier <= 0 {
		errs = append(errs, ValidationError{
			Field: "interval_modifier", Value: c.IntervalModifier,
			Message: "must be positive",
		})
	}
	if c.MaxIntervalDays <= 0 {
		errs = append(errs, ValidationError{
			Field: "max_interval_days", Value: c.MaxIntervalDays,
			Message: "must be positive",
		})
	}

	return errs
}

// validateChords checks pause_keybind and quit_keybind parse and do not
// collide. Callers that want the documented fallback-on-parse-failure
// behavior (§6) should prefer PauseChord/QuitChord; Validate is for a
// caller (e.g. the "config" CLI subcommand) that wants to report the raw
// problem instead of silently falling back.
func (c *Config) validateChords() ValidationErrors {
	var errs ValidationErrors

	pause, pauseErr := keybind.Parse(c.PauseKeybind)
	if pauseErr != nil {
		errs = append(errs, ValidationError{
			Field: "pause_keybind", Value: c.PauseKeybind,
			Message: pauseErr.Error(),
		})
	}

	quit, quitErr := keybind.Parse(c.QuitKeybind)
	if quitErr != nil {
		errs = append(errs, ValidationError{
			Field: "quit_keybind", Value: c.QuitKeybind,
			Message: quitErr.Error(),
		})
	}

	if pauseErr == nil && quitErr == nil && pause.Equal(quit) {
		errs = append(errs, ValidationError{
			Field: "quit_keybind", Value: c.QuitKeybind,
			Message: fmt.Sprintf("must differ from pause_keybind (%s)", c.PauseKeybind),
		})
	}

	return errs
}

func (c *Config) validateLogLevel() ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field: "log_level", Value: c.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	return errs
}
