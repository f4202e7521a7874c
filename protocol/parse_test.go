package protocol

import (
	"testing"
)

func TestParseMessage_SystemInit(t *testing.T) {
	line := []byte(`{"type":"system","subtype":"init","session_id":"sess-1","model":"sonnet","cwd":"/work"}`)

	msg, err := ParseMessage(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sys, ok := msg.(SystemMessage)
	if !ok {
		t.Fatalf("expected SystemMessage, got %T", msg)
	}
	if sys.Subtype != "init" {
		t.Errorf("Subtype = %q, want init", sys.Subtype)
	}
	if sys.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", sys.SessionID)
	}
	if sys.Model != "sonnet" {
		t.Errorf("Model = %q, want sonnet", sys.Model)
	}
}

func TestParseMessage_AssistantWithTextAndToolUse(t *testing.T) {
	line := []byte(`{"type":"assistant","message":{"role":"assistant","content":[` +
		`{"type":"text","text":"Running ls now."},` +
		`{"type":"tool_use","id":"toolu_1","name":"Bash","input":{"command":"ls"}}]}}`)

	msg, err := ParseMessage(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	am, ok := msg.(AssistantMessage)
	if !ok {
		t.Fatalf("expected AssistantMessage, got %T", msg)
	}

	blocks, ok := am.Message.Content.AsBlocks()
	if !ok {
		t.Fatal("expected content blocks")
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	tool, ok := blocks[1].(ToolUseBlock)
	if !ok {
		t.Fatalf("expected ToolUseBlock, got %T", blocks[1])
	}
	if tool.Name != "Bash" || tool.ID != "toolu_1" {
		t.Errorf("tool = %q/%q, want Bash/toolu_1", tool.Name, tool.ID)
	}
	if tool.Input["command"] != "ls" {
		t.Errorf("tool input command = %v, want ls", tool.Input["command"])
	}
}

func TestParseMessage_ControlRequest(t *testing.T) {
	line := []byte(`{"type":"control_request","request_id":"req-9",` +
		`"request":{"subtype":"can_use_tool","tool_name":"Write","input":{"file_path":"a.txt"}}}`)

	msg, err := ParseMessage(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cr, ok := msg.(ControlRequest)
	if !ok {
		t.Fatalf("expected ControlRequest, got %T", msg)
	}
	if cr.RequestID != "req-9" {
		t.Errorf("RequestID = %q, want req-9", cr.RequestID)
	}

	req := ParseToolUseRequest(cr)
	if req == nil {
		t.Fatal("expected parsed tool use request")
	}
	if req.ToolName != "Write" {
		t.Errorf("ToolName = %q, want Write", req.ToolName)
	}
	if req.Input["file_path"] != "a.txt" {
		t.Errorf("Input file_path = %v, want a.txt", req.Input["file_path"])
	}
}

func TestParseMessage_UnknownType(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"type":"keepalive","ts":12345}`))
	if err != nil {
		t.Fatalf("unknown type must not error, got: %v", err)
	}
	if msg != nil {
		t.Fatalf("expected nil message for unknown type, got %T", msg)
	}
}

func TestParseMessage_InvalidJSON(t *testing.T) {
	if _, err := ParseMessage([]byte(`{"type":`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestParseToolUseRequest_UnknownSubtype(t *testing.T) {
	cr := ControlRequest{
		Type:      MessageTypeControlRequest,
		RequestID: "req-1",
		Request:   []byte(`{"subtype":"hook_callback"}`),
	}
	if req := ParseToolUseRequest(cr); req != nil {
		t.Fatalf("expected nil for unknown subtype, got %+v", req)
	}
}
