package claude

// EventType discriminates between event kinds.
type EventType int

const (
	// EventTypeSessionInit fires once when the CLI reports its session ID.
	EventTypeSessionInit EventType = iota
	// EventTypeAssistantText fires for assistant narration.
	EventTypeAssistantText
	// EventTypeToolStarted fires when the agent invokes a tool.
	EventTypeToolStarted
	// EventTypeToolCompleted fires when a tool result arrives.
	EventTypeToolCompleted
	// EventTypeTurnCompleted fires when a turn finishes successfully.
	EventTypeTurnCompleted
	// EventTypeTurnFailed fires when a turn ends in error.
	EventTypeTurnFailed
	// EventTypeError fires for agent-reported errors.
	EventTypeError
)

// Event is the interface for all domain events delivered to the host.
type Event interface {
	Type() EventType
}

// TokenUsage summarizes token accounting for a turn.
// TotalTokens is always InputTokens + OutputTokens; CachedTokens stays 0
// until the wire format reports cache reads.
type TokenUsage struct {
	InputTokens  uint64
	OutputTokens uint64
	CachedTokens uint64
	TotalTokens  uint64
}

// SessionInitEvent fires when the CLI announces the session.
// The session ID is minted by the CLI, never by this adapter.
type SessionInitEvent struct {
	SessionID string
	Model     string
}

// Type returns the event type.
func (e SessionInitEvent) Type() EventType { return EventTypeSessionInit }

// AssistantTextEvent carries assistant narration text.
type AssistantTextEvent struct {
	Text    string
	IsFinal bool
}

// Type returns the event type.
func (e AssistantTextEvent) Type() EventType { return EventTypeAssistantText }

// ToolStartedEvent fires when the agent invokes a tool.
type ToolStartedEvent struct {
	ID    string
	Name  string
	Input map[string]interface{}
}

// Type returns the event type.
func (e ToolStartedEvent) Type() EventType { return EventTypeToolStarted }

// ToolCompletedEvent carries a tool outcome, correlated to the invocation
// by ID. Exactly one of Result and Error is populated.
type ToolCompletedEvent struct {
	ID      string
	Success bool
	Result  string
	Error   string
}

// Type returns the event type.
func (e ToolCompletedEvent) Type() EventType { return EventTypeToolCompleted }

// TurnCompletedEvent fires when a turn finishes successfully.
type TurnCompletedEvent struct {
	Usage TokenUsage
}

// Type returns the event type.
func (e TurnCompletedEvent) Type() EventType { return EventTypeTurnCompleted }

// TurnFailedEvent fires when a turn ends in error.
type TurnFailedEvent struct {
	Error string
}

// Type returns the event type.
func (e TurnFailedEvent) Type() EventType { return EventTypeTurnFailed }

// ErrorEvent carries an agent-reported error. Fatal errors end the session;
// non-fatal ones are per-turn or per-tool and recoverable.
type ErrorEvent struct {
	Message string
	Fatal   bool
}

// Type returns the event type.
func (e ErrorEvent) Type() EventType { return EventTypeError }
