// Package config loads and validates the kbsr configuration file.
//
// Configuration is TOML at <config_dir>/config.toml, read through viper so
// environment variables (KBSR_*) and a --config flag override file values
// the same way the rest of the CLI expects configuration to behave.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/dbalmain/kbsr/internal/keybind"
)

// Config is the fully resolved kbsr configuration (defaults + file + env).
type Config struct {
	TimeoutSecs        int     `mapstructure:"timeout_secs" toml:"timeout_secs"`
	MaxAttempts        int     `mapstructure:"max_attempts" toml:"max_attempts"`
	EasyThresholdMs    int     `mapstructure:"easy_threshold_ms" toml:"easy_threshold_ms"`
	HardThresholdMs    int     `mapstructure:"hard_threshold_ms" toml:"hard_threshold_ms"`
	SuccessDelayMs     int     `mapstructure:"success_delay_ms" toml:"success_delay_ms"`
	FailedFlashDelayMs int     `mapstructure:"failed_flash_delay_ms" toml:"failed_flash_delay_ms"`
	PauseKeybind       string  `mapstructure:"pause_keybind" toml:"pause_keybind"`
	QuitKeybind        string  `mapstructure:"quit_keybind" toml:"quit_keybind"`
	ShuffleCards       bool    `mapstructure:"shuffle_cards" toml:"shuffle_cards"`
	DesiredRetention   float64 `mapstructure:"desired_retention" toml:"desired_retention"`
	IntervalModifier   float64 `mapstructure:"interval_modifier" toml:"interval_modifier"`
	MaxIntervalDays    float64 `mapstructure:"max_interval_days" toml:"max_interval_days"`
	DecksDir           string  `mapstructure:"decks_dir" toml:"decks_dir"`
	DBPath             string  `mapstructure:"db_path" toml:"db_path"`
	LogLevel           string  `mapstructure:"log_level" toml:"log_level"`
}

// Default returns a Config populated with the documented defaults (§6).
func Default() *Config {
	return &Config{
		TimeoutSecs:        10,
		MaxAttempts:        3,
		EasyThresholdMs:    2000,
		HardThresholdMs:    5000,
		SuccessDelayMs:     500,
		FailedFlashDelayMs: 500,
		PauseKeybind:       "Super+Ctrl+P",
		QuitKeybind:        "Super+Ctrl+Q",
		ShuffleCards:       true,
		DesiredRetention:   0.9,
		IntervalModifier:   0.12,
		MaxIntervalDays:    30.0,
		DecksDir:           filepath.Join(DataDir(), "decks"),
		DBPath:             filepath.Join(DataDir(), "kbsr.db"),
		LogLevel:           "info",
	}
}

// SetDefaults registers the documented defaults with viper so they apply
// even when no config file is present.
func SetDefaults() {
	d := Default()
	viper.SetDefault("timeout_secs", d.TimeoutSecs)
	viper.SetDefault("max_attempts", d.MaxAttempts)
	viper.SetDefault("easy_threshold_ms", d.EasyThresholdMs)
	viper.SetDefault("hard_threshold_ms", d.HardThresholdMs)
	viper.SetDefault("success_delay_ms", d.SuccessDelayMs)
	viper.SetDefault("failed_flash_delay_ms", d.FailedFlashDelayMs)
	viper.SetDefault("pause_keybind", d.PauseKeybind)
	viper.SetDefault("quit_keybind", d.QuitKeybind)
	viper.SetDefault("shuffle_cards", d.ShuffleCards)
	viper.SetDefault("desired_retention", d.DesiredRetention)
	viper.SetDefault("interval_modifier", d.IntervalModifier)
	viper.SetDefault("max_interval_days", d.MaxIntervalDays)
	viper.SetDefault("decks_dir", d.DecksDir)
	viper.SetDefault("db_path", d.DBPath)
	viper.SetDefault("log_level", d.LogLevel)
}

// Load reads the configuration from viper into a Config struct. It does not
// parse or validate the pause/quit keybinds; PauseChord and QuitChord resolve
// them, falling back to the documented default chord on a parse failure.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if
// unmarshaling fails.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// PauseChord parses PauseKeybind, falling back to the documented default
// chord on a parse failure rather than silently disabling pause (§6).
func (c *Config) PauseChord() (keybind.ChordSeq, error) {
	return resolveChord(c.PauseKeybind, "Super+Ctrl+P")
}

// QuitChord parses QuitKeybind, falling back to the documented default
// chord on a parse failure rather than silently disabling quit (§6).
func (c *Config) QuitChord() (keybind.ChordSeq, error) {
	return resolveChord(c.QuitKeybind, "Super+Ctrl+Q")
}

func resolveChord(expr, fallback string) (keybind.ChordSeq, error) {
	seq, err := keybind.Parse(expr)
	if err != nil {
		fallbackSeq, fallbackErr := keybind.Parse(fallback)
		if fallbackErr != nil {
			// The documented default itself failed to parse: a bug in this
			// package, not a user configuration error.
			return nil, fallbackErr
		}
		return fallbackSeq, err
	}
	return seq, nil
}

// TimeoutDuration returns TimeoutSecs as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// SuccessDelay returns SuccessDelayMs as a time.Duration.
func (c *Config) SuccessDelay() time.Duration {
	return time.Duration(c.SuccessDelayMs) * time.Millisecond
}

// FailedFlashDelay returns FailedFlashDelayMs as a time.Duration.
func (c *Config) FailedFlashDelay() time.Duration {
	return time.Duration(c.FailedFlashDelayMs) * time.Millisecond
}

// DataDir returns the XDG-aware base directory for kbsr's decks and database,
// following the same resolution order as ConfigDir.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "kbsr")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kbsr"
	}
	return filepath.Join(home, ".local", "share", "kbsr")
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kbsr")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kbsr"
	}
	return filepath.Join(home, ".config", "kbsr")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}
