package protocol

// NewUserTextMessage constructs a streamed prompt payload with plain text.
func NewUserTextMessage(text string) UserMessageToSend {
	return UserMessageToSend{
		Type: "user",
		Message: UserMessageToSendInner{
			Role:    "user",
			Content: text,
		},
	}
}

// NewControlResponse constructs the fixed answer envelope for a control
// request. The payload is whatever the host decided and is embedded verbatim.
func NewControlResponse(requestID string, payload interface{}) ControlResponse {
	return ControlResponse{
		Type: MessageTypeControlResponse,
		Response: ControlResponsePayload{
			Subtype:   "success",
			RequestID: requestID,
			Response:  payload,
		},
	}
}

// NewPermissionAllow constructs a control response that grants tool execution.
//
// input must be the original CanUseToolRequest input when no modifications
// are needed (the wire format forbids a null updatedInput).
func NewPermissionAllow(requestID string, input map[string]interface{}) ControlResponse {
	if input == nil {
		input = map[string]interface{}{}
	}
	return NewControlResponse(requestID, PermissionResultAllow{
		Behavior:     PermissionBehaviorAllow,
		UpdatedInput: input,
	})
}

// NewPermissionDeny constructs a control response that blocks tool execution.
//
// message is the human-readable reason; interrupt asks the agent to stop the
// current turn rather than continue without the tool.
func NewPermissionDeny(requestID string, message string, interrupt bool) ControlResponse {
	return NewControlResponse(requestID, PermissionResultDeny{
		Behavior:  PermissionBehaviorDeny,
		Message:   message,
		Interrupt: interrupt,
	})
}
