package claude

import "strings"

// defaultBinary is the agent CLI resolved via PATH when no override is set.
const defaultBinary = "claude"

// BuildCLIArgs builds the argument vector for a launch. Pure and
// deterministic; it never fails — invalid combinations are unrepresentable
// in Config.
//
// Flag order matters: the CLI's parser is order-sensitive for some
// combinations, and --output-format stream-json without --verbose is a known
// CLI failure mode, so the two are always emitted together.
func BuildCLIArgs(c Config) []string {
	streaming := c.streamingInput()

	var args []string
	if !streaming {
		args = append(args, "--print")
	}
	args = append(args, "--output-format", "stream-json", "--verbose")
	if streaming {
		// Route permission prompts over the stream as control_request
		// messages instead of a terminal prompt.
		args = append(args, "--permission-prompt-tool", "stdio")
	}
	args = append(args, "--permission-mode", c.Mode.permissionMode())
	if tools := dedupe(c.AllowedTools); len(tools) > 0 {
		args = append(args, "--allowedTools", strings.Join(tools, ","))
	}
	if c.Resume != "" {
		args = append(args, "--resume", c.Resume)
	}
	if c.Model != "" {
		args = append(args, "--model", c.Model)
	}
	if c.InputFormat != "" {
		args = append(args, "--input-format", c.InputFormat)
	}
	args = append(args, c.ExtraArgs...)
	if !streaming && c.Prompt != "" {
		// "--" guards prompts that start with a hyphen (e.g. a markdown
		// checklist) from being parsed as options.
		args = append(args, "--", c.Prompt)
	}
	return args
}

// stdinPiped reports whether the child's stdin must be a writable pipe.
// Without streaming input or a raw payload, stdin is attached to the null
// device so the CLI sees immediate EOF.
func stdinPiped(c Config) bool {
	return c.streamingInput() || c.StdinPayload != ""
}
