package message

import "context"

type ToolName string

type ToolDescription string

// ToolArgumentValues holds the raw arguments of a single tool invocation,
// keyed by parameter name.
type ToolArgumentValues map[string]any

// ToolArgument describes one declared parameter of a tool.
type ToolArgument struct {
	Name        string
	Description string
	Required    bool
	Type        string
}

// ToolResult carries either the successful text output of a tool call or a
// request-level error message. Errors travel in-band so the transport can
// report them to the caller without tearing down the session.
type ToolResult struct {
	Text  string
	Error string
}

func NewToolResultText(text string) ToolResult {
	return ToolResult{Text: text}
}

func NewToolResultError(msg string) ToolResult {
	return ToolResult{Error: msg}
}

// ToolHandler executes one tool invocation.
type ToolHandler func(ctx context.Context, args ToolArgumentValues) (ToolResult, error)

// Tool is a named, independently invokable operation.
type Tool interface {
	Name() ToolName
	Description() ToolDescription
	Arguments() []ToolArgument
	Handler() ToolHandler
}
