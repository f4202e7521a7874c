// Package claude drives the headless Claude Code CLI as a subprocess and
// exposes the interaction as a typed event stream plus a control channel
// for permission prompts.
package claude

import (
	"fmt"
	"time"
)

// InputFormatStreamJSON selects streaming structured input: the prompt and
// any follow-ups are written to stdin as JSON lines instead of being passed
// as a positional argument.
const InputFormatStreamJSON = "stream-json"

// AgentMode selects the agent's operating posture for a launch.
type AgentMode int

const (
	// ModeBuild lets the agent modify the working tree.
	ModeBuild AgentMode = iota
	// ModePlan restricts the agent to producing a plan.
	ModePlan
)

// permissionMode maps the mode to its CLI --permission-mode value.
// The mapping is total over the enum; an unmapped mode is a programming
// error, not a runtime condition.
func (m AgentMode) permissionMode() string {
	switch m {
	case ModeBuild:
		return "acceptEdits"
	case ModePlan:
		return "plan"
	}
	panic(fmt.Sprintf("claude: unmapped agent mode %d", int(m)))
}

func (m AgentMode) String() string {
	switch m {
	case ModeBuild:
		return "build"
	case ModePlan:
		return "plan"
	}
	return "unknown"
}

// Config describes one subprocess launch. It is built once by the host and
// never mutated by the invocation builder or the session.
type Config struct {
	// Prompt is the one-shot prompt text. Ignored when streaming input is
	// configured (the prompt travels over stdin instead).
	Prompt string

	// Mode selects the agent's operating posture (build vs plan).
	Mode AgentMode

	// AllowedTools are pre-approved tool names, order preserved.
	AllowedTools []string

	// Resume is a session ID to continue instead of starting fresh.
	Resume string

	// Model overrides the CLI's default model.
	Model string

	// InputFormat overrides the CLI input format. InputFormatStreamJSON
	// switches the session to streaming structured input.
	InputFormat string

	// StdinPayload is raw bytes written to the child's stdin after spawn,
	// e.g. a pre-encoded streamed prompt.
	StdinPayload string

	// WorkDir is the child's working directory.
	WorkDir string

	// ExtraArgs are appended verbatim after all built flags.
	ExtraArgs []string

	// CLIPath is the agent binary (default "claude", resolved via PATH).
	CLIPath string

	// Env adds environment variables on top of the inherited environment.
	Env map[string]string

	// StderrHandler receives raw stderr chunks as they arrive. Stderr is
	// captured for error reporting either way.
	StderrHandler func([]byte)

	// EventBufferSize is the event channel buffer (default 100).
	EventBufferSize int

	// TerminateGrace is how long Terminate waits after SIGTERM before
	// escalating to SIGKILL (default 2s).
	TerminateGrace time.Duration
}

// streamingInput reports whether the launch uses streaming structured input.
func (c Config) streamingInput() bool {
	return c.InputFormat == InputFormatStreamJSON
}

// Option is a functional option for configuring a launch.
type Option func(*Config)

// WithPrompt sets the one-shot prompt text.
func WithPrompt(prompt string) Option {
	return func(c *Config) { c.Prompt = prompt }
}

// WithMode sets the agent operating mode.
func WithMode(mode AgentMode) Option {
	return func(c *Config) { c.Mode = mode }
}

// WithAllowedTools sets the pre-approved tool list. Duplicates are dropped,
// first occurrence wins, order otherwise preserved.
func WithAllowedTools(tools ...string) Option {
	return func(c *Config) { c.AllowedTools = dedupe(tools) }
}

// WithResume continues a previous session instead of starting a new one.
func WithResume(sessionID string) Option {
	return func(c *Config) { c.Resume = sessionID }
}

// WithModel overrides the model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithStreamingInput switches the session to streaming structured input.
func WithStreamingInput() Option {
	return func(c *Config) { c.InputFormat = InputFormatStreamJSON }
}

// WithInputFormat sets an explicit input format override.
func WithInputFormat(format string) Option {
	return func(c *Config) { c.InputFormat = format }
}

// WithStdinPayload sets raw bytes to write to stdin after spawn.
func WithStdinPayload(payload string) Option {
	return func(c *Config) { c.StdinPayload = payload }
}

// WithWorkDir sets the child's working directory.
func WithWorkDir(dir string) Option {
	return func(c *Config) { c.WorkDir = dir }
}

// WithExtraArgs appends pass-through arguments after all built flags.
func WithExtraArgs(args ...string) Option {
	return func(c *Config) { c.ExtraArgs = append(c.ExtraArgs, args...) }
}

// WithCLIPath overrides the agent binary path.
func WithCLIPath(path string) Option {
	return func(c *Config) { c.CLIPath = path }
}

// WithEnv adds an environment variable for the child process.
func WithEnv(key, value string) Option {
	return func(c *Config) {
		if c.Env == nil {
			c.Env = make(map[string]string)
		}
		c.Env[key] = value
	}
}

// WithStderrHandler sets a handler for raw stderr output.
func WithStderrHandler(h func([]byte)) Option {
	return func(c *Config) { c.StderrHandler = h }
}

// WithEventBufferSize sets the event channel buffer size.
func WithEventBufferSize(size int) Option {
	return func(c *Config) { c.EventBufferSize = size }
}

// WithTerminateGrace sets the SIGTERM-to-SIGKILL grace period.
func WithTerminateGrace(d time.Duration) Option {
	return func(c *Config) { c.TerminateGrace = d }
}

// defaultConfig returns the default launch configuration.
func defaultConfig() Config {
	return Config{
		Mode:            ModeBuild,
		EventBufferSize: 100,
		TerminateGrace:  2 * time.Second,
	}
}

// dedupe removes duplicate entries keeping first occurrences in order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
