// Package mcp bridges the filesystem tool manager onto the Model Context
// Protocol stdio transport.
package mcp

import (
	"context"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fpt/go-fsorganizer-mcp/pkg/logger"
	"github.com/fpt/go-fsorganizer-mcp/pkg/message"
)

// callTimeout bounds a single tool invocation. Directory-tree copies are
// unbounded in duration, so a slow call must not hold the transport forever.
const callTimeout = 60 * time.Second

// ToolManager is the subset of the tool manager the bridge needs.
type ToolManager interface {
	GetTools() map[message.ToolName]message.Tool
	CallTool(ctx context.Context, name message.ToolName, args message.ToolArgumentValues) (message.ToolResult, error)
}

// Server wraps an MCP server exposing every registered tool.
type Server struct {
	srv    *server.MCPServer
	logger *logger.Logger
}

// NewServer builds an MCP server from the tool manager's registry. Tools are
// registered in name order so the advertised catalog is deterministic.
func NewServer(name, version string, manager ToolManager) *Server {
	s := &Server{
		srv:    server.NewMCPServer(name, version, server.WithToolCapabilities(false), server.WithRecovery()),
		logger: logger.NewComponentLogger("mcp"),
	}

	tools := manager.GetTools()
	names := make([]message.ToolName, 0, len(tools))
	for toolName := range tools {
		names = append(names, toolName)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, toolName := range names {
		s.srv.AddTool(buildTool(tools[toolName]), s.handlerFor(manager, toolName))
	}

	return s
}

// Serve runs the stdio transport until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.srv)
}

// buildTool converts a registered tool into its MCP declaration: name,
// one-line description, and typed parameter list.
func buildTool(t message.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(string(t.Description()))}

	for _, arg := range t.Arguments() {
		propOpts := []mcp.PropertyOption{mcp.Description(arg.Description)}
		if arg.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		opts = append(opts, mcp.WithString(arg.Name, propOpts...))
	}

	return mcp.NewTool(string(t.Name()), opts...)
}

// handlerFor adapts a tool manager call to the mcp-go handler signature.
// Request-level failures (access denied, I/O errors) come back as error
// results, never as transport errors.
func (s *Server) handlerFor(manager ToolManager, name message.ToolName) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		args := message.ToolArgumentValues(request.GetArguments())

		result, err := manager.CallTool(ctx, name, args)
		if err != nil {
			return nil, err
		}

		if result.Error != "" {
			s.logger.Debug("Tool call failed", "tool", string(name), "error", result.Error)
			return mcp.NewToolResultError(result.Error), nil
		}
		return mcp.NewToolResultText(result.Text), nil
	}
}
