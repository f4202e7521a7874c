package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesrochabrun/AgentHub/claude"
)

func TestLoadHostConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		config, err := LoadHostConfig(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Mode != "build" {
			t.Errorf("Mode = %q, want %q", config.Mode, "build")
		}
		if config.AgentMode() != claude.ModeBuild {
			t.Errorf("AgentMode = %v, want build", config.AgentMode())
		}
	})

	t.Run("valid yaml file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".agenthub.yaml")
		content := `
model: claude-opus-4
mode: plan
allowed_tools:
  - Read
  - Bash
auto_approve: true
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadHostConfig(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Model != "claude-opus-4" {
			t.Errorf("Model = %q", config.Model)
		}
		if config.AgentMode() != claude.ModePlan {
			t.Errorf("AgentMode = %v, want plan", config.AgentMode())
		}
		if len(config.AllowedTools) != 2 {
			t.Errorf("len(AllowedTools) = %d, want 2", len(config.AllowedTools))
		}
		if !config.AutoApprove {
			t.Error("AutoApprove = false, want true")
		}
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".agenthub.yaml")
		if err := os.WriteFile(configPath, []byte("model: [unclosed"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadHostConfig(tmpDir); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})

	t.Run("empty mode uses build", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".agenthub.yaml")
		if err := os.WriteFile(configPath, []byte("model: m\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadHostConfig(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Mode != "build" {
			t.Errorf("Mode = %q, want %q", config.Mode, "build")
		}
	})
}
