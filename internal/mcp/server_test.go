package mcp

import (
	"context"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/fpt/go-fsorganizer-mcp/pkg/logger"
	"github.com/fpt/go-fsorganizer-mcp/pkg/message"
)

func testLogger() *logger.Logger {
	return logger.NewComponentLogger("test")
}

type stubTool struct {
	name        message.ToolName
	description message.ToolDescription
	arguments   []message.ToolArgument
	handler     message.ToolHandler
}

func (t *stubTool) Name() message.ToolName               { return t.name }
func (t *stubTool) Description() message.ToolDescription { return t.description }
func (t *stubTool) Arguments() []message.ToolArgument    { return t.arguments }
func (t *stubTool) Handler() message.ToolHandler         { return t.handler }

type stubManager struct {
	tools  map[message.ToolName]message.Tool
	called message.ToolName
	args   message.ToolArgumentValues
	result message.ToolResult
}

func (m *stubManager) GetTools() map[message.ToolName]message.Tool {
	return m.tools
}

func (m *stubManager) CallTool(ctx context.Context, name message.ToolName, args message.ToolArgumentValues) (message.ToolResult, error) {
	m.called = name
	m.args = args
	return m.result, nil
}

func TestBuildTool(t *testing.T) {
	tool := &stubTool{
		name:        "read_file",
		description: "Read and return the content of a file",
		arguments: []message.ToolArgument{
			{Name: "path", Description: "Path to the file", Required: true, Type: "string"},
		},
	}

	built := buildTool(tool)

	if built.Name != "read_file" {
		t.Errorf("Expected name read_file, got %s", built.Name)
	}
	if built.Description != "Read and return the content of a file" {
		t.Errorf("Unexpected description: %s", built.Description)
	}
	if _, ok := built.InputSchema.Properties["path"]; !ok {
		t.Error("Expected path property in input schema")
	}
	if len(built.InputSchema.Required) != 1 || built.InputSchema.Required[0] != "path" {
		t.Errorf("Expected path to be required, got %v", built.InputSchema.Required)
	}
}

func TestHandlerFor_TextResult(t *testing.T) {
	manager := &stubManager{result: message.NewToolResultText("hello")}
	srv := &Server{logger: testLogger()}

	handler := srv.handlerFor(manager, "read_file")
	request := mcpgo.CallToolRequest{}
	request.Params.Name = "read_file"
	request.Params.Arguments = map[string]any{"path": "/data/x.txt"}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if manager.called != "read_file" {
		t.Errorf("Expected call routed to read_file, got %s", manager.called)
	}
	if got := manager.args["path"]; got != "/data/x.txt" {
		t.Errorf("Expected path argument forwarded, got %v", got)
	}
	if result.IsError {
		t.Errorf("Expected success result, got error: %+v", result)
	}
}

func TestHandlerFor_ErrorResultStaysRequestLevel(t *testing.T) {
	manager := &stubManager{result: message.NewToolResultError("access denied: path is not within allowed directories")}
	srv := &Server{logger: testLogger()}

	handler := srv.handlerFor(manager, "read_file")
	request := mcpgo.CallToolRequest{}
	request.Params.Name = "read_file"
	request.Params.Arguments = map[string]any{"path": "/etc/passwd"}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Request-level failures must not become transport errors: %v", err)
	}
	if !result.IsError {
		t.Error("Expected an error result")
	}
}

func TestNewServer_RegistersAllTools(t *testing.T) {
	manager := &stubManager{
		tools: map[message.ToolName]message.Tool{
			"read_file":  &stubTool{name: "read_file", description: "read"},
			"write_file": &stubTool{name: "write_file", description: "write"},
		},
	}

	srv := NewServer("test", "0.0.1", manager)
	if srv == nil || srv.srv == nil {
		t.Fatal("Expected a constructed server")
	}
}
