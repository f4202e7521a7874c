package claude

import (
	"reflect"
	"strings"
	"testing"
)

func buildConfig(opts ...Option) Config {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

func TestBuildCLIArgs_OneShotDefaults(t *testing.T) {
	args := BuildCLIArgs(buildConfig(WithPrompt("fix the bug")))

	want := []string{
		"--print",
		"--output-format", "stream-json",
		"--verbose",
		"--permission-mode", "acceptEdits",
		"--", "fix the bug",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestBuildCLIArgs_PlanMode(t *testing.T) {
	args := BuildCLIArgs(buildConfig(WithPrompt("p"), WithMode(ModePlan)))

	if !hasFlagValue(args, "--permission-mode", "plan") {
		t.Errorf("expected --permission-mode plan in %v", args)
	}
}

func TestBuildCLIArgs_StreamingInput(t *testing.T) {
	config := buildConfig(WithStreamingInput())
	args := BuildCLIArgs(config)

	for _, a := range args {
		if a == "--print" {
			t.Errorf("streaming launch must not include --print: %v", args)
		}
	}
	if !hasFlagValue(args, "--permission-prompt-tool", "stdio") {
		t.Errorf("expected --permission-prompt-tool stdio in %v", args)
	}
	if !hasFlagValue(args, "--input-format", "stream-json") {
		t.Errorf("expected --input-format stream-json in %v", args)
	}
	if !stdinPiped(config) {
		t.Error("streaming launch must pipe stdin")
	}
}

func TestBuildCLIArgs_OutputFormatAlwaysPairsWithVerbose(t *testing.T) {
	cases := []Config{
		buildConfig(WithPrompt("a")),
		buildConfig(WithStreamingInput()),
		buildConfig(WithPrompt("a"), WithResume("s-1"), WithModel("opus")),
	}
	for _, c := range cases {
		args := BuildCLIArgs(c)
		fmtIdx, verboseIdx := -1, -1
		for i, a := range args {
			if a == "--output-format" {
				fmtIdx = i
			}
			if a == "--verbose" {
				verboseIdx = i
			}
		}
		if fmtIdx == -1 || verboseIdx == -1 {
			t.Errorf("missing --output-format/--verbose pair in %v", args)
			continue
		}
		if args[fmtIdx+1] != "stream-json" {
			t.Errorf("--output-format value = %q, want stream-json", args[fmtIdx+1])
		}
	}
}

func TestBuildCLIArgs_AllowedToolsJoinedAndDeduped(t *testing.T) {
	args := BuildCLIArgs(buildConfig(
		WithPrompt("p"),
		WithAllowedTools("Read", "Bash", "Read", "Edit"),
	))

	if !hasFlagValue(args, "--allowedTools", "Read,Bash,Edit") {
		t.Errorf("expected --allowedTools Read,Bash,Edit in %v", args)
	}
}

func TestBuildCLIArgs_NoAllowedToolsFlagWhenEmpty(t *testing.T) {
	args := BuildCLIArgs(buildConfig(WithPrompt("p")))
	for _, a := range args {
		if a == "--allowedTools" {
			t.Errorf("unexpected --allowedTools in %v", args)
		}
	}
}

func TestBuildCLIArgs_ResumeAndModel(t *testing.T) {
	args := BuildCLIArgs(buildConfig(
		WithPrompt("continue"),
		WithResume("sess-42"),
		WithModel("claude-opus-4"),
	))

	if !hasFlagValue(args, "--resume", "sess-42") {
		t.Errorf("expected --resume sess-42 in %v", args)
	}
	if !hasFlagValue(args, "--model", "claude-opus-4") {
		t.Errorf("expected --model claude-opus-4 in %v", args)
	}
}

func TestBuildCLIArgs_PromptIsFinalAfterSeparator(t *testing.T) {
	prompt := "- check the list\n- then stop"
	args := BuildCLIArgs(buildConfig(
		WithPrompt(prompt),
		WithExtraArgs("--dangerously-skip-permissions"),
	))

	if len(args) < 2 {
		t.Fatalf("too few args: %v", args)
	}
	if args[len(args)-1] != prompt {
		t.Errorf("prompt must be the final positional, got %q", args[len(args)-1])
	}
	if args[len(args)-2] != "--" {
		t.Errorf("expected -- immediately before prompt, got %q", args[len(args)-2])
	}
	for _, a := range args[:len(args)-1] {
		if a == prompt {
			t.Errorf("prompt appears before the separator in %v", args)
		}
	}
}

func TestBuildCLIArgs_ExtraArgsVerbatimBeforePrompt(t *testing.T) {
	args := BuildCLIArgs(buildConfig(
		WithPrompt("p"),
		WithExtraArgs("--foo", "bar"),
	))

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--foo bar -- p") {
		t.Errorf("extra args must come after built flags and before the prompt: %v", args)
	}
}

func TestBuildCLIArgs_StreamingIgnoresPrompt(t *testing.T) {
	args := BuildCLIArgs(buildConfig(WithStreamingInput(), WithPrompt("ignored")))
	for _, a := range args {
		if a == "ignored" || a == "--" {
			t.Errorf("streaming launch must not carry a positional prompt: %v", args)
		}
	}
}

func TestStdinPiped(t *testing.T) {
	if stdinPiped(buildConfig(WithPrompt("p"))) {
		t.Error("one-shot launch without payload must not pipe stdin")
	}
	if !stdinPiped(buildConfig(WithStdinPayload(`{"type":"user"}`))) {
		t.Error("launch with a stdin payload must pipe stdin")
	}
}

func hasFlagValue(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
