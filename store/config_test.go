package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/sealstore/node"
	"github.com/tailored-agentic-units/sealstore/store"
)

func TestDefaultConfig(t *testing.T) {
	cfg := store.DefaultConfig()

	if cfg.Observer != "slog" {
		t.Errorf("got Observer %q, want %q", cfg.Observer, "slog")
	}
	if cfg.MergeMode != "replace" {
		t.Errorf("got MergeMode %q, want %q", cfg.MergeMode, "replace")
	}
	if cfg.MaxDepth != node.DefaultMaxDepth {
		t.Errorf("got MaxDepth %d, want %d", cfg.MaxDepth, node.DefaultMaxDepth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := store.DefaultConfig()

	cfg.Merge(&store.Config{
		Observer:  "noop",
		MergeMode: "preserve",
		MaxDepth:  16,
	})

	if cfg.Observer != "noop" {
		t.Errorf("got Observer %q, want %q", cfg.Observer, "noop")
	}
	if cfg.MergeMode != "preserve" {
		t.Errorf("got MergeMode %q, want %q", cfg.MergeMode, "preserve")
	}
	if cfg.MaxDepth != 16 {
		t.Errorf("got MaxDepth %d, want 16", cfg.MaxDepth)
	}
}

func TestConfig_Merge_ZeroValuesPreserveDefaults(t *testing.T) {
	cfg := store.DefaultConfig()
	original := cfg

	cfg.Merge(&store.Config{})

	if cfg != original {
		t.Errorf("got %+v, want %+v (preserved defaults)", cfg, original)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     store.Config
		wantErr bool
	}{
		{name: "defaults", cfg: store.DefaultConfig(), wantErr: false},
		{name: "preserve", cfg: store.Config{Observer: "noop", MergeMode: "preserve"}, wantErr: false},
		{name: "empty mode", cfg: store.Config{Observer: "noop"}, wantErr: false},
		{name: "missing observer", cfg: store.Config{MergeMode: "replace"}, wantErr: true},
		{name: "bad mode", cfg: store.Config{Observer: "noop", MergeMode: "deep"}, wantErr: true},
		{name: "negative depth", cfg: store.Config{Observer: "noop", MaxDepth: -1}, wantErr: true},
		{name: "warning level", cfg: store.Config{Observer: "noop", MinLevel: "warning"}, wantErr: false},
		{name: "bad level", cfg: store.Config{Observer: "noop", MinLevel: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")

	content := `{
		"observer": "noop",
		"merge_mode": "preserve"
	}`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Observer != "noop" {
		t.Errorf("got Observer %q, want %q", cfg.Observer, "noop")
	}
	if cfg.MergeMode != "preserve" {
		t.Errorf("got MergeMode %q, want %q", cfg.MergeMode, "preserve")
	}
	if cfg.MaxDepth != node.DefaultMaxDepth {
		t.Errorf("got MaxDepth %d, want default %d", cfg.MaxDepth, node.DefaultMaxDepth)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := store.LoadConfig("/nonexistent/path/config.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.json")

	if err := os.WriteFile(configPath, []byte("{invalid}"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := store.LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestLoadConfig_InvalidMode(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mode.json")

	if err := os.WriteFile(configPath, []byte(`{"merge_mode": "deep"}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := store.LoadConfig(configPath); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}
