package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/smarttags/internal/prompt"
	"github.com/starford/smarttags/internal/vocab"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Vocabulary VocabularyConfig  `yaml:"vocabulary"`
	Prompt     PromptConfig      `yaml:"prompt"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Vocabulary.Validate(); err != nil {
		return fmt.Errorf("vocabulary: %w", err)
	}
	if err := c.Prompt.Validate(); err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// VocabularyConfig locates the tag vocabulary store.
type VocabularyConfig struct {
	Path    string `yaml:"path"`
	Backend string `yaml:"backend"`
}

// Validate validates the vocabulary configuration.
func (c *VocabularyConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = vocab.BackendJSON
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Backend, validation.Required, validation.In(vocab.BackendJSON, vocab.BackendSQLite)),
	)
}

// PromptConfig controls how disambiguation questions are answered.
//
// Mode is one of:
//   - "auto" (default): ask when stdin is a terminal, otherwise take defaults.
//   - "interactive": always ask, reading answers line by line from stdin.
//   - "defaults": never ask; first candidate for typos, register unknown tags.
type PromptConfig struct {
	Mode  string `yaml:"mode"`
	Color string `yaml:"color"`
}

// Validate validates the prompt configuration.
func (c *PromptConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = prompt.ModeAuto
	}
	if c.Color == "" {
		c.Color = prompt.ColorAuto
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.In(prompt.ModeAuto, prompt.ModeInteractive, prompt.ModeDefaults)),
		validation.Field(&c.Color, validation.In(prompt.ColorAuto, prompt.ColorAlways, prompt.ColorNever)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelWarn,
			LogFormat: LogFormatText,
		},
		Vocabulary: VocabularyConfig{
			Path:    "tags_db.json",
			Backend: vocab.BackendJSON,
		},
		Prompt: PromptConfig{
			Mode:  prompt.ModeAuto,
			Color: prompt.ColorAuto,
		},
	}
}
