package main

import (
	"os"

	"github.com/Dosada05/fixture-engine/mcptools"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	// stdout carries the MCP protocol.
	logger.SetOutput(os.Stderr)

	mcpServer := mcptools.NewFixtureMCPServer(services.NewFormatService(), logger)
	if mcpServer == nil {
		logger.Fatal("Failed to create MCP server")
	}

	logger.Info("Starting Fixture Engine MCP Server...")
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
