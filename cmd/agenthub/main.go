// agenthub - drive the headless agent CLI from scripts and terminals.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesrochabrun/AgentHub/claude"
	"github.com/jamesrochabrun/AgentHub/protocol"
)

var (
	modelFlag    string
	planFlag     bool
	toolsFlag    []string
	workdirFlag  string
	streamFlag   bool
	approveFlag  bool
	verboseFlag  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agenthub",
	Short: "Drive the headless agent CLI",
	Long: `agenthub runs the agent CLI as a subprocess and renders its event
stream: narration, tool invocations, tool results, and the final turn
outcome. Tool permission prompts are answered interactively unless
auto-approval is enabled.

Per-directory defaults are read from .agenthub.yaml.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model override")
	rootCmd.PersistentFlags().BoolVar(&planFlag, "plan", false, "Plan mode (no edits)")
	rootCmd.PersistentFlags().StringSliceVarP(&toolsFlag, "allowed-tools", "t", nil, "Pre-approved tools")
	rootCmd.PersistentFlags().StringVarP(&workdirFlag, "workdir", "C", "", "Working directory for the agent")
	rootCmd.PersistentFlags().BoolVar(&streamFlag, "stream", false, "Streaming input with interactive permission prompts")
	rootCmd.PersistentFlags().BoolVarP(&approveFlag, "yes", "y", false, "Auto-approve all tool permission prompts")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show tool inputs and results")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)
}

// buildOptions merges the directory config with command-line flags.
// Flags win.
func buildOptions() ([]claude.Option, bool, error) {
	dir := workdirFlag
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, false, err
		}
	}

	config, err := LoadHostConfig(dir)
	if err != nil {
		return nil, false, fmt.Errorf("load config: %w", err)
	}

	opts := config.Options()
	autoApprove := config.AutoApprove || approveFlag

	if planFlag {
		opts = append(opts, claude.WithMode(claude.ModePlan))
	}
	if modelFlag != "" {
		opts = append(opts, claude.WithModel(modelFlag))
	}
	if len(toolsFlag) > 0 {
		opts = append(opts, claude.WithAllowedTools(toolsFlag...))
	}
	if workdirFlag != "" {
		opts = append(opts, claude.WithWorkDir(workdirFlag))
	}
	if streamFlag {
		opts = append(opts, claude.WithStreamingInput())
	}

	return opts, autoApprove, nil
}

// runCmd: agenthub run <prompt>
var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Run a prompt to completion",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, autoApprove, err := buildOptions()
		if err != nil {
			return err
		}
		return runSession(strings.Join(args, " "), opts, autoApprove)
	},
}

// resumeCmd: agenthub resume <session-id> <prompt>
var resumeCmd = &cobra.Command{
	Use:   "resume <session-id> <prompt>",
	Short: "Continue a previous session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, autoApprove, err := buildOptions()
		if err != nil {
			return err
		}
		opts = append(opts, claude.WithResume(args[0]))
		return runSession(strings.Join(args[1:], " "), opts, autoApprove)
	},
}

// promptOptions selects how the prompt reaches the agent. One-shot launches
// pass it as the final positional argument; streaming launches get no
// positional prompt, so it must travel over stdin as an encoded user message.
func promptOptions(prompt string, streaming bool) ([]claude.Option, error) {
	if !streaming {
		return []claude.Option{claude.WithPrompt(prompt)}, nil
	}
	line, err := protocol.NewUserTextMessage(prompt).Marshal()
	if err != nil {
		return nil, err
	}
	return []claude.Option{claude.WithStdinPayload(string(line))}, nil
}

func runSession(prompt string, opts []claude.Option, autoApprove bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	promptOpts, err := promptOptions(prompt, streamFlag)
	if err != nil {
		return err
	}
	opts = append(opts, promptOpts...)
	session := claude.NewSession(opts...)
	if err := session.Start(ctx); err != nil {
		return err
	}

	// Ctrl-C kills the agent rather than orphaning it.
	go func() {
		<-ctx.Done()
		_ = session.Terminate()
	}()

	events := session.Events()
	controls := session.ControlRequests()
	var turnFailed string

	for events != nil || controls != nil {
		select {
		case req, ok := <-controls:
			if !ok {
				controls = nil
				continue
			}
			if err := answerPermission(session, req, autoApprove); err != nil {
				fmt.Fprintln(os.Stderr, "Error: permission response failed:", err)
			}
		case evt, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			renderEvent(evt)
			if ev, isFail := evt.(claude.TurnFailedEvent); isFail {
				turnFailed = ev.Error
			}
		}
	}

	if err := session.Err(); err != nil {
		return err
	}
	if turnFailed != "" {
		return fmt.Errorf("turn failed: %s", turnFailed)
	}
	return nil
}

// answerPermission decides a tool permission prompt. Non-interactive tools
// follow the auto-approve setting; interactive tools always ask the user.
func answerPermission(session *claude.Session, req claude.ToolPermissionRequest, autoApprove bool) error {
	if !claude.IsInteractiveTool(req.ToolName) && autoApprove {
		fmt.Printf("  [auto-approved] %s\n", req.ToolName)
		return session.Allow(req.RequestID, req.Input)
	}

	fmt.Printf("Allow tool %q? [y/N] ", req.ToolName)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(strings.ToLower(answer)) == "y" {
		return session.Allow(req.RequestID, req.Input)
	}
	return session.Deny(req.RequestID, "denied by user", false)
}

func renderEvent(evt claude.Event) {
	switch e := evt.(type) {
	case claude.SessionInitEvent:
		fmt.Printf("session %s (%s)\n", e.SessionID, e.Model)
	case claude.AssistantTextEvent:
		fmt.Println(e.Text)
	case claude.ToolStartedEvent:
		if verboseFlag {
			fmt.Printf("  -> %s %v\n", e.Name, e.Input)
		} else {
			fmt.Printf("  -> %s\n", e.Name)
		}
	case claude.ToolCompletedEvent:
		if !e.Success {
			fmt.Printf("  <- failed: %s\n", firstLine(e.Error))
		} else if verboseFlag {
			fmt.Printf("  <- %s\n", firstLine(e.Result))
		}
	case claude.TurnCompletedEvent:
		fmt.Printf("done (tokens: %d in, %d out)\n", e.Usage.InputTokens, e.Usage.OutputTokens)
	case claude.TurnFailedEvent:
		fmt.Fprintf(os.Stderr, "turn failed: %s\n", e.Error)
	case claude.ErrorEvent:
		fmt.Fprintf(os.Stderr, "error: %s\n", e.Message)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
