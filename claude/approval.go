package claude

// Interactive tools need a user-facing prompt: they exist to collect input
// or sign-off from a human, so auto-approving them defeats their purpose.
// Everything else is eligible for whatever approval policy the host applies.
const (
	ToolAskUserQuestion = "AskUserQuestion"
	ToolExitPlanMode    = "ExitPlanMode"
)

// IsInteractiveTool reports whether the named tool requires a user-facing
// approval prompt. The classification is fixed; the approval decision itself
// always belongs to the host.
func IsInteractiveTool(name string) bool {
	switch name {
	case ToolAskUserQuestion, ToolExitPlanMode:
		return true
	}
	return false
}
