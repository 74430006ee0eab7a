// Package mcptools exposes the fixture engine as MCP tools over stdio.
package mcptools

import (
	"context"

	"github.com/Dosada05/fixture-engine/services"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

func NewFixtureMCPServer(formatService services.FormatService, logger *logrus.Logger) *server.DefaultServer {
	tools := NewToolHandler(formatService, logger)

	s := server.NewDefaultServer("Fixture Engine", "1.0.0")
	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		list := tools.Tools()
		logger.WithField("tools_count", len(list)).Info("Listing available tools")
		return &mcp.ListToolsResult{Tools: list}, nil
	})

	s.HandleCallTool(func(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		logger.WithField("tool", name).Info("Tool called")
		return tools.Call(ctx, name, arguments)
	})

	logger.Info("All tools registered successfully")
	return s
}
