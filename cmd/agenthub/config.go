package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jamesrochabrun/AgentHub/claude"
)

// HostConfig holds per-directory defaults from .agenthub.yaml.
type HostConfig struct {
	Model        string   `yaml:"model"`
	Mode         string   `yaml:"mode"`
	AllowedTools []string `yaml:"allowed_tools"`
	CLIPath      string   `yaml:"cli_path"`
	ExtraArgs    []string `yaml:"extra_args"`
	AutoApprove  bool     `yaml:"auto_approve"`
}

// LoadHostConfig loads .agenthub.yaml from a directory.
// Returns a default config if the file doesn't exist.
func LoadHostConfig(dir string) (*HostConfig, error) {
	configPath := filepath.Join(dir, ".agenthub.yaml")

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return &HostConfig{Mode: "build"}, nil
	}
	if err != nil {
		return nil, err
	}

	var config HostConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if config.Mode == "" {
		config.Mode = "build"
	}

	return &config, nil
}

// AgentMode maps the configured mode string to the typed enum.
func (c *HostConfig) AgentMode() claude.AgentMode {
	if c.Mode == "plan" {
		return claude.ModePlan
	}
	return claude.ModeBuild
}

// Options builds launch options from the config.
func (c *HostConfig) Options() []claude.Option {
	opts := []claude.Option{claude.WithMode(c.AgentMode())}
	if c.Model != "" {
		opts = append(opts, claude.WithModel(c.Model))
	}
	if len(c.AllowedTools) > 0 {
		opts = append(opts, claude.WithAllowedTools(c.AllowedTools...))
	}
	if c.CLIPath != "" {
		opts = append(opts, claude.WithCLIPath(c.CLIPath))
	}
	if len(c.ExtraArgs) > 0 {
		opts = append(opts, claude.WithExtraArgs(c.ExtraArgs...))
	}
	return opts
}
