package protocol

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// ControlRequest wraps a question from the CLI that requires an answer,
// correlated by request_id. With --permission-prompt-tool stdio the CLI
// asks for tool approval this way instead of prompting a terminal.
type ControlRequest struct {
	Type      MessageType     `json:"type"`
	RequestID string          `json:"request_id"`
	Request   json.RawMessage `json:"request"`
}

// MsgType returns the message type.
func (m ControlRequest) MsgType() MessageType { return MessageTypeControlRequest }

// ControlRequestSubtype is the subtype of a control request.
type ControlRequestSubtype string

const (
	ControlRequestSubtypeCanUseTool ControlRequestSubtype = "can_use_tool"
)

// CanUseToolRequest asks permission to run a tool.
type CanUseToolRequest struct {
	SubtypeField ControlRequestSubtype  `json:"subtype"`
	ToolName     string                 `json:"tool_name"`
	Input        map[string]interface{} `json:"input"`
}

// Subtype returns the control request subtype.
func (r CanUseToolRequest) Subtype() ControlRequestSubtype { return r.SubtypeField }

// ToolUseRequest is the parsed form of a can_use_tool control request.
type ToolUseRequest struct {
	RequestID string
	ToolName  string
	Input     map[string]interface{}
}

// ParseToolUseRequest extracts tool use information from a control request.
// Returns nil for anything other than a can_use_tool request; unknown
// subtypes are logged and skipped, never errors.
func ParseToolUseRequest(msg ControlRequest) *ToolUseRequest {
	var base struct {
		Subtype ControlRequestSubtype `json:"subtype"`
	}
	if err := json.Unmarshal(msg.Request, &base); err != nil {
		return nil
	}

	if base.Subtype != ControlRequestSubtypeCanUseTool {
		slog.Warn("skipping unknown control request subtype", "subtype", base.Subtype)
		return nil
	}

	var req CanUseToolRequest
	if err := json.Unmarshal(msg.Request, &req); err != nil {
		return nil
	}

	return &ToolUseRequest{
		RequestID: msg.RequestID,
		ToolName:  req.ToolName,
		Input:     req.Input,
	}
}

// ControlResponse is the envelope written back to the CLI's stdin to answer
// a ControlRequest. The shape is fixed; the inner response payload is opaque
// and passed through verbatim.
type ControlResponse struct {
	Type     MessageType            `json:"type"`
	Response ControlResponsePayload `json:"response"`
}

// MsgType returns the message type.
func (m ControlResponse) MsgType() MessageType { return MessageTypeControlResponse }

// Marshal serializes the control response to a JSON line ready to write to the CLI.
func (m ControlResponse) Marshal() ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal ControlResponse: %w", err)
	}
	return b, nil
}

// ControlResponsePayload is the inner response payload.
type ControlResponsePayload struct {
	Subtype   string      `json:"subtype"`
	RequestID string      `json:"request_id"`
	Response  interface{} `json:"response,omitempty"`
}

// PermissionBehavior is the behavior for a permission response.
type PermissionBehavior string

const (
	PermissionBehaviorAllow PermissionBehavior = "allow"
	PermissionBehaviorDeny  PermissionBehavior = "deny"
)

// PermissionResultAllow grants tool execution.
// updatedInput must be an object, never null; pass the original input when
// no modifications are needed.
type PermissionResultAllow struct {
	Behavior     PermissionBehavior     `json:"behavior"`
	UpdatedInput map[string]interface{} `json:"updatedInput"`
}

// PermissionResultDeny blocks tool execution.
type PermissionResultDeny struct {
	Behavior  PermissionBehavior `json:"behavior"`
	Message   string             `json:"message,omitempty"`
	Interrupt bool               `json:"interrupt,omitempty"`
}
