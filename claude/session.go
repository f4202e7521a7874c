package claude

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/jamesrochabrun/AgentHub/protocol"
)

// SessionState tracks the lifecycle of a session.
type SessionState int

const (
	// StateStarting means the session exists but the process has not spawned.
	StateStarting SessionState = iota
	// StateRunning means the process is alive and the stream is being read.
	StateRunning
	// StateCompleted means the session ended with a successful result.
	StateCompleted
	// StateFailed means the session ended in error.
	StateFailed
	// StateKilled means the host terminated the session.
	StateKilled
)

func (s SessionState) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateKilled:
		return "killed"
	}
	return "unknown"
}

// terminal reports whether the state is final.
func (s SessionState) terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateKilled
}

// ToolPermissionRequest asks the host to approve or deny a tool invocation.
// The turn is suspended inside the agent until the host calls Respond with
// the same RequestID.
type ToolPermissionRequest struct {
	RequestID string
	ToolName  string
	Input     map[string]interface{}
}

// stderrTailLimit bounds how much stderr is retained for error reporting.
const stderrTailLimit = 16 * 1024

// Session is one conversation turn (or a streamed series of turns) with the
// agent CLI. Events arrive on Events() in the order the underlying stream
// produced them; permission prompts arrive on ControlRequests() and must be
// answered via Respond.
type Session struct {
	config Config

	// newTransport is the factory for the process transport. Tests swap in
	// a scripted fake.
	newTransport func(Config) transport

	proc     transport
	events   chan Event
	controls chan ToolPermissionRequest
	done     chan struct{}
	killed   chan struct{}

	stderrMu sync.Mutex
	stderrWG sync.WaitGroup
	stderr   strings.Builder

	mu          sync.Mutex
	state       SessionState
	started     bool
	killing     bool
	sawTerminal bool
	err         error
}

// NewSession creates a session for one launch. The process does not spawn
// until Start.
func NewSession(opts ...Option) *Session {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Session{
		config:       config,
		newTransport: func(c Config) transport { return newProcessManager(c) },
		events:       make(chan Event, config.EventBufferSize),
		controls:     make(chan ToolPermissionRequest, 16),
		done:         make(chan struct{}),
		killed:       make(chan struct{}),
		state:        StateStarting,
	}
}

// Start spawns the CLI process and begins reading its stream. A session
// starts at most once; ErrAlreadyStarted otherwise.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	proc := s.newTransport(s.config)
	s.proc = proc
	s.mu.Unlock()

	if err := proc.Start(ctx); err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.err = err
		s.mu.Unlock()
		close(s.events)
		close(s.controls)
		close(s.done)
		return err
	}

	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()

	if stderr := proc.Stderr(); stderr != nil {
		s.stderrWG.Add(1)
		go s.stderrLoop(stderr)
	}
	go s.readLoop()

	if s.config.StdinPayload != "" {
		if err := proc.WriteLine([]byte(s.config.StdinPayload)); err != nil {
			_ = s.Terminate()
			return err
		}
		if !s.config.streamingInput() {
			// One-shot payload: signal EOF so the CLI starts the turn.
			_ = proc.CloseStdin()
		}
	}

	return nil
}

// Events returns the domain event stream. The channel closes when the
// session ends.
func (s *Session) Events() <-chan Event {
	return s.events
}

// ControlRequests returns the permission prompt stream. Requests are never
// multiplexed onto Events: an event informs, a request demands an answer.
// The channel closes when the session ends.
func (s *Session) ControlRequests() <-chan ToolPermissionRequest {
	return s.controls
}

// Respond answers a permission prompt with an arbitrary decision payload.
// Most hosts want Allow or Deny instead.
func (s *Session) Respond(requestID string, payload interface{}) error {
	return s.writeControl(protocol.NewControlResponse(requestID, payload))
}

// Allow grants a pending tool permission request. input should echo the
// request's input unless the host modified it.
func (s *Session) Allow(requestID string, input map[string]interface{}) error {
	return s.writeControl(protocol.NewPermissionAllow(requestID, input))
}

// Deny blocks a pending tool permission request.
func (s *Session) Deny(requestID, message string, interrupt bool) error {
	return s.writeControl(protocol.NewPermissionDeny(requestID, message, interrupt))
}

func (s *Session) writeControl(resp protocol.ControlResponse) error {
	s.mu.Lock()
	proc := s.proc
	started := s.started
	s.mu.Unlock()

	if !started {
		return ErrNotStarted
	}
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	line, err := resp.Marshal()
	if err != nil {
		return err
	}
	return proc.WriteLine(line)
}

// Send writes a follow-up user message in streaming input mode.
func (s *Session) Send(text string) error {
	s.mu.Lock()
	proc := s.proc
	started := s.started
	s.mu.Unlock()

	if !started {
		return ErrNotStarted
	}

	msg := protocol.NewUserTextMessage(text)
	line, err := msg.Marshal()
	if err != nil {
		return err
	}
	return proc.WriteLine(line)
}

// CloseInput signals end of input in streaming mode. The CLI finishes the
// in-flight turn and exits.
func (s *Session) CloseInput() error {
	s.mu.Lock()
	proc := s.proc
	s.mu.Unlock()

	if proc == nil {
		return ErrNotStarted
	}
	return proc.CloseStdin()
}

// Terminate kills the session: stdin EOF, SIGTERM to the process group, then
// SIGKILL after the grace period. Idempotent.
func (s *Session) Terminate() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if s.killing {
		s.mu.Unlock()
		return nil
	}
	s.killing = true
	if !s.state.terminal() {
		s.state = StateKilled
	}
	proc := s.proc
	s.mu.Unlock()

	close(s.killed)
	return proc.Stop(s.config.TerminateGrace)
}

// Wait blocks until the session ends or the context is done, then returns
// the session error, if any.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return s.Err()
	}
}

// Done is closed when the session has fully ended.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the session-level failure, if any. Turn-level errors travel as
// events instead.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ExitCode returns the process exit code, or -1 before exit.
func (s *Session) ExitCode() int {
	s.mu.Lock()
	proc := s.proc
	s.mu.Unlock()

	if proc == nil {
		return -1
	}
	return proc.ExitCode()
}

// readLoop reads stdout lines until EOF, then settles the final state and
// closes the outbound channels. Runs as the sole emitter, which keeps event
// order identical to wire order.
func (s *Session) readLoop() {
	defer func() {
		s.finish()
		close(s.events)
		close(s.controls)
		close(s.done)
	}()

	for {
		line, err := s.proc.ReadLine()
		if len(line) > 0 {
			s.handleLine(line)
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) handleLine(line []byte) {
	msg, err := protocol.ParseMessage(line)
	if err != nil {
		// A malformed line is the CLI's bug, not the host's problem.
		// Log it and keep the stream alive.
		slog.Warn("skipping malformed stream line", "error", err)
		return
	}
	if msg == nil {
		return
	}

	if cr, ok := msg.(protocol.ControlRequest); ok {
		s.handleControlRequest(cr)
		return
	}

	for _, ev := range Translate(msg) {
		switch e := ev.(type) {
		case TurnCompletedEvent:
			s.setTerminal(StateCompleted)
		case TurnFailedEvent:
			s.setTerminal(StateFailed)
		case ErrorEvent:
			if e.Fatal {
				s.setTerminal(StateFailed)
			}
		}
		s.emit(ev)
	}
}

func (s *Session) handleControlRequest(cr protocol.ControlRequest) {
	req := protocol.ParseToolUseRequest(cr)
	if req == nil {
		return
	}

	select {
	case s.controls <- ToolPermissionRequest{
		RequestID: req.RequestID,
		ToolName:  req.ToolName,
		Input:     req.Input,
	}:
	case <-s.killed:
	}
}

// emit delivers an event, blocking until the host consumes it. A kill
// unblocks the send so readLoop can drain to EOF.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	case <-s.killed:
		select {
		case s.events <- ev:
		default:
		}
	}
}

// setTerminal records a stream-reported outcome. A host kill wins over any
// outcome reported afterwards.
func (s *Session) setTerminal(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sawTerminal = true
	if s.state == StateRunning {
		s.state = state
	}
}

// finish settles the session after EOF. A clean exit without a terminal
// result still counts as Completed; a non-zero exit without one is a
// process-level failure carrying the stderr tail.
func (s *Session) finish() {
	waitErr := s.proc.Wait()
	s.stderrWG.Wait()
	exit := s.proc.ExitCode()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sawTerminal || s.state != StateRunning {
		return
	}

	if exit == 0 {
		s.state = StateCompleted
		return
	}

	s.state = StateFailed
	s.err = &ProcessError{
		Message:  "agent exited without a result",
		ExitCode: exit,
		Stderr:   s.stderrTail(),
		Cause:    waitErr,
	}
}

// stderrLoop drains the child's stderr, keeping a bounded tail for error
// reporting and forwarding chunks to the configured handler.
func (s *Session) stderrLoop(r io.Reader) {
	defer s.stderrWG.Done()

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			s.stderrMu.Lock()
			if s.stderr.Len() < stderrTailLimit {
				s.stderr.Write(chunk)
			}
			s.stderrMu.Unlock()
			if s.config.StderrHandler != nil {
				s.config.StderrHandler(chunk)
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) stderrTail() string {
	s.stderrMu.Lock()
	defer s.stderrMu.Unlock()
	return s.stderr.String()
}

// Stderr returns the captured stderr tail.
func (s *Session) Stderr() string {
	return s.stderrTail()
}
