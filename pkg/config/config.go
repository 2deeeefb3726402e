package config

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config defines the application configuration structure, mapped
// directly from config.json. It holds business-level settings such as
// channel credentials and the LLM provider choice.
type Config struct {
	// Channels maps channel identifiers (e.g., "telegram", "console")
	// to their specific configuration payloads in raw JSON form.
	Channels map[string]jsoniter.RawMessage `json:"channels"`
	// LLM holds the provider group configuration in raw JSON.
	LLM jsoniter.RawMessage `json:"llm"`
	// BotName is the name the assistant identifies itself by.
	// Defaults to "HelpBot".
	BotName string `json:"bot_name"`
}

// Validate ensures the configuration contains all mandatory sections.
func (c *Config) Validate() error {
	if len(c.LLM) == 0 {
		return fmt.Errorf("mandatory 'llm' configuration is missing or empty")
	}
	if c.BotName == "" {
		c.BotName = "HelpBot"
	}
	return nil
}

// SystemConfig defines engine-level technical parameters, stored in
// system.json. Missing or corrupt files fall back to safe defaults so
// the bot can always start.
type SystemConfig struct {
	// MaxIterations bounds the agent loop. An unconstrained loop risks
	// unbounded cost and latency against a metered completion service.
	MaxIterations int `json:"max_iterations"`
	// Temperature is the sampling temperature for tool selection.
	// Kept low to reduce spurious or malformed tool calls.
	Temperature float64 `json:"temperature"`
	// StopSequence is the stop marker sent with every completion request.
	StopSequence string `json:"stop_sequence"`
	// LLMTimeoutMs is the hard cutoff (in milliseconds) for a single
	// completion request.
	LLMTimeoutMs int `json:"llm_timeout_ms"`
	// ToolTimeoutMs bounds individual tool execution time.
	ToolTimeoutMs int `json:"tool_timeout_ms"`
	// TelegramMessageLimit is the maximum character count for a single
	// Telegram message; longer replies are split into chunks.
	TelegramMessageLimit int `json:"telegram_message_limit"`
	// LogLevel sets the minimum severity for log output.
	// Accepted values: "debug", "info", "warn", "error". Default: "info".
	LogLevel string `json:"log_level"`
}

// DefaultSystemConfig returns a SystemConfig initialized with the
// hardcoded defaults.
func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		MaxIterations:        10,
		Temperature:          0.25,
		StopSequence:         "PAUSE",
		LLMTimeoutMs:         120000,
		ToolTimeoutMs:        30000,
		TelegramMessageLimit: 4000,
		LogLevel:             "info",
	}
}

// Load reads and parses config.json and system.json from the current
// working directory. The application config is mandatory; the system
// config falls back to defaults.
func Load() (*Config, *SystemConfig, error) {
	appPath := "config.json"
	appFile, err := os.ReadFile(appPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file '%s': %w", appPath, err)
	}

	var cfg Config
	if err := json.Unmarshal(appFile, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	sysCfg := LoadSystemConfig("system.json")

	return &cfg, sysCfg, nil
}

// LoadSystemConfig attempts to load system settings, returning defaults
// when the file is missing or unparseable.
func LoadSystemConfig(path string) *SystemConfig {
	cfg := DefaultSystemConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(file, cfg); err != nil {
		return cfg
	}

	return cfg
}
