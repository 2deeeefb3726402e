package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSystemConfig(t *testing.T) {
	cfg := DefaultSystemConfig()

	if cfg.MaxIterations != 10 {
		t.Errorf("MaxIterations = %d, want 10", cfg.MaxIterations)
	}
	if cfg.Temperature != 0.25 {
		t.Errorf("Temperature = %v, want 0.25", cfg.Temperature)
	}
	if cfg.StopSequence != "PAUSE" {
		t.Errorf("StopSequence = %q, want PAUSE", cfg.StopSequence)
	}
	if cfg.TelegramMessageLimit != 4000 {
		t.Errorf("TelegramMessageLimit = %d, want 4000", cfg.TelegramMessageLimit)
	}
}

func TestLoadSystemConfigMissingFile(t *testing.T) {
	cfg := LoadSystemConfig(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.MaxIterations != 10 {
		t.Errorf("missing file did not fall back to defaults: %+v", cfg)
	}
}

func TestLoadSystemConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.json")
	if err := os.WriteFile(path, []byte(`{"max_iterations": 5, "log_level": "debug"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadSystemConfig(path)
	if cfg.MaxIterations != 5 {
		t.Errorf("MaxIterations = %d, want 5", cfg.MaxIterations)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	// Untouched fields keep their defaults
	if cfg.StopSequence != "PAUSE" {
		t.Errorf("StopSequence = %q, want PAUSE", cfg.StopSequence)
	}
}

func TestLoadSystemConfigCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadSystemConfig(path)
	if cfg.MaxIterations != 10 {
		t.Errorf("corrupt file did not fall back to defaults: %+v", cfg)
	}
}

func TestValidateRequiresLLM(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("empty llm section accepted")
	}

	cfg = &Config{LLM: []byte(`[{"type": "openai"}]`)}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.BotName != "HelpBot" {
		t.Errorf("BotName = %q, want default HelpBot", cfg.BotName)
	}
}

func TestStoreSwap(t *testing.T) {
	store := NewStore(nil)
	if store.System().MaxIterations != 10 {
		t.Fatal("nil seed did not default")
	}

	next := DefaultSystemConfig()
	next.MaxIterations = 3
	store.ReplaceSystem(next)
	if store.System().MaxIterations != 3 {
		t.Error("ReplaceSystem did not swap the snapshot")
	}

	store.ReplaceSystem(nil)
	if store.System().MaxIterations != 3 {
		t.Error("nil replacement clobbered the snapshot")
	}
}
