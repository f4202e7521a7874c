package claude

import "context"

// QueryResult is the outcome of a one-shot Query.
type QueryResult struct {
	SessionID string
	Text      string
	Usage     TokenUsage
}

// Query runs a one-shot prompt to completion and returns the final assistant
// text. Tool permission prompts are auto-approved; hosts that need an
// approval policy should drive a Session directly.
func Query(ctx context.Context, prompt string, opts ...Option) (*QueryResult, error) {
	opts = append(opts, WithPrompt(prompt))
	session := NewSession(opts...)
	if err := session.Start(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = session.Terminate() }()

	return collectResult(ctx, session)
}

// collectResult drains a session to completion, auto-approving permission
// prompts along the way. An agent-reported failure surfaces as
// *TurnFailedError; a process-level failure as the session error.
func collectResult(ctx context.Context, session *Session) (*QueryResult, error) {
	result := &QueryResult{}
	var turnErr error

	events := session.Events()
	controls := session.ControlRequests()
	for events != nil || controls != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case req, ok := <-controls:
			if !ok {
				controls = nil
				continue
			}
			_ = session.Allow(req.RequestID, req.Input)
		case evt, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			switch e := evt.(type) {
			case SessionInitEvent:
				result.SessionID = e.SessionID
			case AssistantTextEvent:
				result.Text = e.Text
			case TurnCompletedEvent:
				result.Usage = e.Usage
			case TurnFailedEvent:
				turnErr = &TurnFailedError{Detail: e.Error}
			}
		}
	}

	if err := session.Err(); err != nil {
		return nil, err
	}
	if turnErr != nil {
		return nil, turnErr
	}
	return result, nil
}

// QueryStream runs a one-shot prompt and returns the event channel directly.
// Permission prompts are auto-approved. The session is terminated when the
// context is done or the stream ends; the caller should range over the
// returned channel until it closes.
func QueryStream(ctx context.Context, prompt string, opts ...Option) (<-chan Event, error) {
	opts = append(opts, WithPrompt(prompt))
	session := NewSession(opts...)
	if err := session.Start(ctx); err != nil {
		return nil, err
	}

	out := make(chan Event, session.config.EventBufferSize)
	go func() {
		defer close(out)
		defer func() { _ = session.Terminate() }()

		events := session.Events()
		controls := session.ControlRequests()
		for events != nil {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-controls:
				if !ok {
					controls = nil
					continue
				}
				_ = session.Allow(req.RequestID, req.Input)
			case evt, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
