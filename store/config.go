package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/tailored-agentic-units/sealstore/node"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds store initialization parameters. It is read once by New and
// then turned into the store's observer, merge mode, and freezer.
type Config struct {
	// Observer names a registered observer ("noop", "slog", "trace", ...).
	Observer string `json:"observer,omitempty" validate:"required"`

	// MergeMode is "replace" or "preserve"; see node.Mode.
	MergeMode string `json:"merge_mode,omitempty" validate:"omitempty,oneof=replace preserve"`

	// MaxDepth limits nesting accepted from initial state and updates.
	MaxDepth int `json:"max_depth,omitempty" validate:"gte=0"`

	// MinLevel drops events below this level before they reach the
	// observer. Empty forwards everything.
	MinLevel string `json:"min_level,omitempty" validate:"omitempty,oneof=verbose info warning error"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Observer:  "slog",
		MergeMode: node.ModeReplace.String(),
		MaxDepth:  node.DefaultMaxDepth,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if source.MergeMode != "" {
		c.MergeMode = source.MergeMode
	}
	if source.MaxDepth > 0 {
		c.MaxDepth = source.MaxDepth
	}
	if source.MinLevel != "" {
		c.MinLevel = source.MinLevel
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid store config: %w", err)
	}
	return nil
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
