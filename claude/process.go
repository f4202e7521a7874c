package claude

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/jamesrochabrun/AgentHub/internal/ndjson"
	"github.com/jamesrochabrun/AgentHub/internal/procattr"
)

// transport abstracts the spawned CLI process so the session logic can be
// exercised against a scripted fake.
type transport interface {
	Start(ctx context.Context) error
	ReadLine() ([]byte, error)
	WriteLine(line []byte) error
	CloseStdin() error
	Stderr() io.Reader
	Stop(grace time.Duration) error
	Wait() error
	ExitCode() int
}

// processManager owns the agent CLI process and its pipes.
type processManager struct {
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	stdout   io.ReadCloser
	stderr   io.ReadCloser
	reader   *ndjson.Reader
	config   Config
	waitErr  error
	waitOnce sync.Once
	writeMu  sync.Mutex
	mu       sync.Mutex
	started  bool
	stdinEOF bool
}

var _ transport = (*processManager)(nil)

// newProcessManager creates a process manager for one launch.
func newProcessManager(config Config) *processManager {
	return &processManager{config: config}
}

// Start spawns the agent CLI with the built argument vector and stdio plan.
func (pm *processManager) Start(ctx context.Context) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.started {
		return ErrAlreadyStarted
	}

	cliPath := pm.config.CLIPath
	if cliPath == "" {
		cliPath = defaultBinary
	}

	pm.cmd = exec.CommandContext(ctx, cliPath, BuildCLIArgs(pm.config)...)

	pm.cmd.Env = os.Environ()
	for k, v := range pm.config.Env {
		pm.cmd.Env = append(pm.cmd.Env, k+"="+v)
	}

	procattr.Set(pm.cmd)

	if pm.config.WorkDir != "" {
		pm.cmd.Dir = pm.config.WorkDir
	}

	var err error
	if stdinPiped(pm.config) {
		pm.stdin, err = pm.cmd.StdinPipe()
		if err != nil {
			return &ProcessError{Message: "failed to create stdin pipe", Cause: err}
		}
	}
	// cmd.Stdin stays nil otherwise: the child reads from the null device
	// and sees immediate EOF.

	pm.stdout, err = pm.cmd.StdoutPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stdout pipe", Cause: err}
	}

	pm.stderr, err = pm.cmd.StderrPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stderr pipe", Cause: err}
	}

	pm.reader = ndjson.NewReader(pm.stdout)

	if err := pm.cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return &CLINotFoundError{Path: cliPath, Cause: err}
		}
		return &ProcessError{Message: "failed to start CLI process", Cause: err}
	}

	pm.started = true
	return nil
}

// ReadLine returns the next JSON line from the child's stdout.
func (pm *processManager) ReadLine() ([]byte, error) {
	pm.mu.Lock()
	reader := pm.reader
	pm.mu.Unlock()

	if reader == nil {
		return nil, ErrNotStarted
	}
	return reader.ReadLine()
}

// WriteLine writes one line to the child's stdin. The stdin pipe is a
// single-writer resource; all writes are serialized here so a streamed
// payload and control responses can never interleave.
func (pm *processManager) WriteLine(line []byte) error {
	pm.writeMu.Lock()
	defer pm.writeMu.Unlock()

	if pm.stdin == nil {
		return ErrNotStarted
	}
	if pm.stdinEOF {
		return ErrSessionClosed
	}

	if _, err := pm.stdin.Write(line); err != nil {
		return &ProcessError{Message: "failed to write to CLI stdin", Cause: err}
	}
	if len(line) == 0 || line[len(line)-1] != '\n' {
		if _, err := pm.stdin.Write([]byte{'\n'}); err != nil {
			return &ProcessError{Message: "failed to write to CLI stdin", Cause: err}
		}
	}
	return nil
}

// CloseStdin signals EOF to a child that reads its input until close.
func (pm *processManager) CloseStdin() error {
	pm.writeMu.Lock()
	defer pm.writeMu.Unlock()

	if pm.stdin == nil || pm.stdinEOF {
		return nil
	}
	pm.stdinEOF = true
	return pm.stdin.Close()
}

// Stderr returns the child's stderr reader.
func (pm *processManager) Stderr() io.Reader {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.stderr
}

// Wait blocks until the child exits. Safe to call from multiple goroutines.
func (pm *processManager) Wait() error {
	pm.waitOnce.Do(func() {
		pm.waitErr = pm.cmd.Wait()
	})
	return pm.waitErr
}

// ExitCode returns the child's exit code, or -1 if it has not exited.
func (pm *processManager) ExitCode() int {
	if pm.cmd == nil || pm.cmd.ProcessState == nil {
		return -1
	}
	return pm.cmd.ProcessState.ExitCode()
}

// Stop terminates the child: stdin EOF first, then SIGTERM to the process
// group, then SIGKILL after the grace period.
func (pm *processManager) Stop(grace time.Duration) error {
	pm.mu.Lock()
	if !pm.started {
		pm.mu.Unlock()
		return nil
	}
	pm.mu.Unlock()

	_ = pm.CloseStdin()

	done := make(chan struct{})
	go func() {
		_ = pm.Wait()
		close(done)
	}()

	if pm.cmd.Process != nil {
		_ = procattr.SignalGroup(pm.cmd.Process, syscall.SIGTERM)
	}

	select {
	case <-done:
		return nil
	case <-time.After(grace):
		// No response to SIGTERM within the grace period.
	}

	if pm.cmd.Process != nil {
		_ = procattr.KillGroup(pm.cmd.Process)
	}

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}

	return nil
}
