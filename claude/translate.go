package claude

import (
	"strings"

	"github.com/jamesrochabrun/AgentHub/protocol"
)

// authFailedMarker is the literal error value the CLI emits when its stored
// credentials are rejected.
const authFailedMarker = "authentication_failed"

// authRemediation is shown instead of the raw marker so the user knows how
// to recover.
const authRemediation = "authentication failed: run `claude /login` to re-authenticate"

// Translate maps one wire message to zero or more domain events. Pure and
// total: every input produces a deterministic output with no hidden state.
// Control requests translate to nothing here — they need an answer, not an
// event, and the session routes them separately.
func Translate(msg protocol.Message) []Event {
	switch m := msg.(type) {
	case protocol.SystemMessage:
		return translateSystem(m)
	case protocol.AssistantMessage:
		return translateAssistant(m)
	case protocol.UserMessage:
		return translateToolResults(m)
	case protocol.ResultMessage:
		return translateResult(m)
	default:
		return nil
	}
}

func translateSystem(m protocol.SystemMessage) []Event {
	if m.Subtype != "init" || m.SessionID == "" {
		return nil
	}
	return []Event{SessionInitEvent{SessionID: m.SessionID, Model: m.Model}}
}

// translateAssistant emits narration before tool invocations: a host UI
// renders what the agent says before what it does.
func translateAssistant(m protocol.AssistantMessage) []Event {
	if m.Error == authFailedMarker {
		return []Event{ErrorEvent{Message: authRemediation, Fatal: true}}
	}
	if m.Error != "" {
		return []Event{ErrorEvent{Message: "agent error: " + m.Error, Fatal: true}}
	}

	blocks, ok := m.Message.Content.AsBlocks()
	if !ok {
		return nil
	}

	var events []Event

	var text strings.Builder
	for _, block := range blocks {
		if tb, ok := block.(protocol.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if text.Len() > 0 {
		events = append(events, AssistantTextEvent{Text: text.String(), IsFinal: true})
	}

	for _, block := range blocks {
		if tb, ok := block.(protocol.ToolUseBlock); ok {
			events = append(events, ToolStartedEvent{
				ID:    tb.ID,
				Name:  tb.Name,
				Input: tb.Input,
			})
		}
	}

	return events
}

func translateToolResults(m protocol.UserMessage) []Event {
	blocks, ok := m.Message.Content.AsBlocks()
	if !ok {
		return nil
	}

	var events []Event
	for _, block := range blocks {
		rb, ok := block.(protocol.ToolResultBlock)
		if !ok {
			continue
		}

		isError := rb.IsError != nil && *rb.IsError
		ev := ToolCompletedEvent{
			ID:      rb.ToolUseID,
			Success: !isError,
		}
		if isError {
			ev.Error = rb.ContentText()
		} else {
			ev.Result = rb.ContentText()
		}
		events = append(events, ev)
	}
	return events
}

func translateResult(m protocol.ResultMessage) []Event {
	if m.IsError {
		detail := firstNonEmpty(m.Result, m.Output, m.Error, "Unknown error")
		return []Event{
			ErrorEvent{Message: "agent error: " + detail, Fatal: true},
			TurnFailedEvent{Error: detail},
		}
	}

	usage := TokenUsage{
		InputTokens:  m.Usage.InputTokens,
		OutputTokens: m.Usage.OutputTokens,
		CachedTokens: m.Usage.CacheReadInputTokens,
		TotalTokens:  m.Usage.InputTokens + m.Usage.OutputTokens,
	}
	return []Event{TurnCompletedEvent{Usage: usage}}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
