package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.TimeoutSecs != 10 {
		t.Errorf("TimeoutSecs = %d, want 10", cfg.TimeoutSecs)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.EasyThresholdMs != 2000 {
		t.Errorf("EasyThresholdMs = %d, want 2000", cfg.EasyThresholdMs)
	}
	if cfg.HardThresholdMs != 5000 {
		t.Errorf("HardThresholdMs = %d, want 5000", cfg.HardThresholdMs)
	}
	if cfg.SuccessDelayMs != 500 {
		t.Errorf("SuccessDelayMs = %d, want 500", cfg.SuccessDelayMs)
	}
	if cfg.FailedFlashDelayMs != 500 {
		t.Errorf("FailedFlashDelayMs = %d, want 500", cfg.FailedFlashDelayMs)
	}
	if cfg.PauseKeybind != "Super+Ctrl+P" {
		t.Errorf("PauseKeybind = %q, want %q", cfg.PauseKeybind, "Super+Ctrl+P")
	}
	if cfg.QuitKeybind != "Super+Ctrl+Q" {
		t.Errorf("QuitKeybind = %q, want %q", cfg.QuitKeybind, "Super+Ctrl+Q")
	}
	if !cfg.ShuffleCards {
		t.Error("ShuffleCards should be true by default")
	}
	if cfg.DesiredRetention != 0.9 {
		t.Errorf("DesiredRetention = %v, want 0.9", cfg.DesiredRetention)
	}
	if cfg.IntervalModifier != 0.12 {
		t.Errorf("IntervalModifier = %v, want 0.12", cfg.IntervalModifier)
	}
	if cfg.MaxIntervalDays != 30.0 {
		t.Errorf("MaxIntervalDays = %v, want 30.0", cfg.MaxIntervalDays)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestConfig_TimeoutDuration(t *testing.T) {
	cfg := &Config{TimeoutSecs: 7}
	if got := cfg.TimeoutDuration(); got != 7*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 7s", got)
	}
}

func TestConfig_SuccessDelay(t *testing.T) {
	cfg := &Config{SuccessDelayMs: 250}
	if got := cfg.SuccessDelay(); got != 250*time.Millisecond {
		t.Errorf("SuccessDelay() = %v, want 250ms", got)
	}
}

func TestConfig_FailedFlashDelay(t *testing.T) {
	cfg := &Config{FailedFlashDelayMs: 750}
	if got := cfg.FailedFlashDelay(); got != 750*time.Millisecond {
		t.Errorf("FailedFlashDelay() = %v, want 750ms", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		original := os.Getenv("XDG_CONFIG_HOME")
		defer func() { _ = os.Setenv("XDG_CONFIG_HOME", original) }()

		_ = os.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/kbsr"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		original := os.Getenv("XDG_CONFIG_HOME")
		defer func() { _ = os.Setenv("XDG_CONFIG_HOME", original) }()

		_ = os.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "kbsr")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	original := os.Getenv("XDG_CONFIG_HOME")
	defer func() { _ = os.Setenv("XDG_CONFIG_HOME", original) }()

	_ = os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/kbsr/config.toml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestDataDir(t *testing.T) {
	t.Run("with XDG_DATA_HOME", func(t *testing.T) {
		original := os.Getenv("XDG_DATA_HOME")
		defer func() { _ = os.Setenv("XDG_DATA_HOME", original) }()

		_ = os.Setenv("XDG_DATA_HOME", "/custom/data")
		result := DataDir()
		expected := "/custom/data/kbsr"
		if result != expected {
			t.Errorf("DataDir() = %q, want %q", result, expected)
		}
	})
}

func TestGet(t *testing.T) {
	viper.Reset()
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.TimeoutSecs != 10 {
		t.Errorf("Get().TimeoutSecs = %d, want 10", cfg.TimeoutSecs)
	}
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("max_attempts", 5)
	viper.Set("shuffle_cards", false)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.ShuffleCards {
		t.Error("ShuffleCards should be false after viper.Set(false)")
	}
}

func TestConfig_PauseChord(t *testing.T) {
	cfg := Default()
	seq, err := cfg.PauseChord()
	if err != nil {
		t.Fatalf("PauseChord() error = %v", err)
	}
	if seq.String() != "Ctrl+Super+P" {
		t.Errorf("PauseChord() = %q, want %q", seq.String(), "Ctrl+Super+P")
	}
}

func TestConfig_PauseChord_FallsBackOnParseFailure(t *testing.T) {
	cfg := Default()
	cfg.PauseKeybind = "Ctrl+Ctrl+X"

	seq, err := cfg.PauseChord()
	if err == nil {
		t.Fatal("PauseChord() error = nil, want a parse error surfaced alongside the fallback")
	}
	if seq.String() != "Ctrl+Super+P" {
		t.Errorf("PauseChord() fallback = %q, want the documented default chord", seq.String())
	}
}

func TestConfig_QuitChord(t *testing.T) {
	cfg := Default()
	seq, err := cfg.QuitChord()
	if err != nil {
		t.Fatalf("QuitChord() error = %v", err)
	}
	if seq.String() != "Ctrl+Super+Q" {
		t.Errorf("QuitChord() = %q, want %q", seq.String(), "Ctrl+Super+Q")
	}
}

func TestConfig_QuitChord_FallsBackOnParseFailure(t *testing.T) {
	cfg := Default()
	cfg.QuitKeybind = ""

	seq, err := cfg.QuitChord()
	if err == nil {
		t.Fatal("QuitChord() error = nil, want a parse error surfaced alongside the fallback")
	}
	if seq.String() != "Ctrl+Super+Q" {
		t.Errorf("QuitChord() fallback = %q, want the documented default chord", seq.String())
	}
}
