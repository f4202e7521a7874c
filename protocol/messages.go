// Package protocol defines the wire-level messages exchanged with the
// headless agent CLI over newline-delimited JSON, and the encoders for the
// lines written back to it. Nothing here touches process I/O.
package protocol

import (
	"encoding/json"
	"fmt"
)

// MessageType discriminates between message kinds on the wire.
type MessageType string

const (
	MessageTypeSystem          MessageType = "system"
	MessageTypeAssistant       MessageType = "assistant"
	MessageTypeUser            MessageType = "user"
	MessageTypeResult          MessageType = "result"
	MessageTypeControlRequest  MessageType = "control_request"
	MessageTypeControlResponse MessageType = "control_response"
)

// Message is the interface for all inbound protocol messages.
type Message interface {
	MsgType() MessageType
}

// SystemMessage carries session initialization and other system events.
// Only the "init" subtype matters downstream; everything else is informational.
type SystemMessage struct {
	Type           MessageType `json:"type"`
	Subtype        string      `json:"subtype"`
	SessionID      string      `json:"session_id"`
	Model          string      `json:"model,omitempty"`
	CWD            string      `json:"cwd,omitempty"`
	PermissionMode string      `json:"permissionMode,omitempty"`
	Tools          []string    `json:"tools,omitempty"`
}

// MsgType returns the message type.
func (m SystemMessage) MsgType() MessageType { return MessageTypeSystem }

// Usage tracks token counts as reported by the CLI.
type Usage struct {
	InputTokens              uint64 `json:"input_tokens"`
	OutputTokens             uint64 `json:"output_tokens"`
	CacheReadInputTokens     uint64 `json:"cache_read_input_tokens"`
	CacheCreationInputTokens uint64 `json:"cache_creation_input_tokens"`
}

// MessageContent is the inner content of assistant and user messages.
type MessageContent struct {
	Role    string          `json:"role"`
	Content FlexibleContent `json:"content"`
	Usage   Usage           `json:"usage,omitempty"`
}

// AssistantMessage is a complete message from the agent. The same message can
// carry narration text and tool invocations side by side, and may instead
// carry a top-level error marker (e.g. "authentication_failed").
type AssistantMessage struct {
	Type      MessageType    `json:"type"`
	SessionID string         `json:"session_id"`
	Error     string         `json:"error,omitempty"`
	Message   MessageContent `json:"message"`
}

// MsgType returns the message type.
func (m AssistantMessage) MsgType() MessageType { return MessageTypeAssistant }

// UserMessage is how the CLI echoes tool results back into the transcript.
type UserMessage struct {
	Type      MessageType    `json:"type"`
	SessionID string         `json:"session_id"`
	Message   MessageContent `json:"message"`
}

// MsgType returns the message type.
func (m UserMessage) MsgType() MessageType { return MessageTypeUser }

// ResultMessage terminates a turn with success or failure plus usage metrics.
// On failure the detail may live in any of Result, Output, or Error depending
// on the CLI version.
type ResultMessage struct {
	Type          MessageType `json:"type"`
	Subtype       string      `json:"subtype"`
	SessionID     string      `json:"session_id"`
	IsError       bool        `json:"is_error"`
	Result        string      `json:"result,omitempty"`
	Output        string      `json:"output,omitempty"`
	Error         string      `json:"error,omitempty"`
	Usage         Usage       `json:"usage"`
	NumTurns      int         `json:"num_turns,omitempty"`
	DurationMs    int64       `json:"duration_ms,omitempty"`
	TotalCostUSD  float64     `json:"total_cost_usd,omitempty"`
}

// MsgType returns the message type.
func (m ResultMessage) MsgType() MessageType { return MessageTypeResult }

// FlexibleContent can be either a plain string or an array of content blocks.
type FlexibleContent struct {
	raw json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (fc *FlexibleContent) UnmarshalJSON(data []byte) error {
	fc.raw = data
	return nil
}

// MarshalJSON implements json.Marshaler.
func (fc FlexibleContent) MarshalJSON() ([]byte, error) {
	if fc.raw == nil {
		return []byte("null"), nil
	}
	return fc.raw, nil
}

// IsString reports whether the content is a plain string.
func (fc FlexibleContent) IsString() bool {
	return len(fc.raw) > 0 && fc.raw[0] == '"'
}

// AsString returns the content as a string (if it is one).
func (fc FlexibleContent) AsString() (string, bool) {
	if !fc.IsString() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(fc.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// AsBlocks returns the content as content blocks (if it is an array).
func (fc FlexibleContent) AsBlocks() (ContentBlocks, bool) {
	if fc.IsString() || len(fc.raw) == 0 {
		return nil, false
	}
	var blocks ContentBlocks
	if err := json.Unmarshal(fc.raw, &blocks); err != nil {
		return nil, false
	}
	return blocks, true
}

// UserMessageToSend is the streamed prompt payload written to the CLI's stdin.
type UserMessageToSend struct {
	Type    string                 `json:"type"`
	Message UserMessageToSendInner `json:"message"`
}

// UserMessageToSendInner is the inner part of messages we send.
type UserMessageToSendInner struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// Marshal serializes the message to a JSON line ready to write to the CLI.
func (m UserMessageToSend) Marshal() ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal UserMessageToSend: %w", err)
	}
	return b, nil
}
