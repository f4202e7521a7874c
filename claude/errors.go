package claude

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	ErrAlreadyStarted = errors.New("session already started")
	ErrNotStarted     = errors.New("session not started")
	ErrSessionClosed  = errors.New("session is closed")
)

// ProcessError reports that the subprocess could not be spawned or exited
// without a terminal result. The event stream cannot describe "the source of
// events is gone", so this surfaces as a session-level failure instead.
type ProcessError struct {
	Cause    error
	Message  string
	Stderr   string
	ExitCode int
}

func (e *ProcessError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("process error: %s (exit code %d)", e.Message, e.ExitCode)
	}
	return fmt.Sprintf("process error: %s", e.Message)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// TurnFailedError reports an agent-reported turn failure (an error result on
// the stream). Distinct from ProcessError: the process ran and answered, the
// agent just could not complete the turn.
type TurnFailedError struct {
	Detail string
}

func (e *TurnFailedError) Error() string {
	return fmt.Sprintf("turn failed: %s", e.Detail)
}

// CLINotFoundError indicates the agent binary was not found.
type CLINotFoundError struct {
	Path  string
	Cause error
}

func (e *CLINotFoundError) Error() string {
	return fmt.Sprintf("CLI binary not found at %q: %v", e.Path, e.Cause)
}

func (e *CLINotFoundError) Unwrap() error {
	return e.Cause
}
