// Package mcp exposes the intake engine's classification, suggestion,
// and incident lookup capabilities as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/safetydesk/safetydesk/internal/capa"
	"github.com/safetydesk/safetydesk/internal/incident"
	"github.com/safetydesk/safetydesk/internal/intent"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes safety intake tools.
type Server struct {
	classifier *intent.Classifier
	suggester  *capa.Engine
	incidents  *incident.Store
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(classifier *intent.Classifier, suggester *capa.Engine, incidents *incident.Store) *Server {
	s := &Server{
		classifier: classifier,
		suggester:  suggester,
		incidents:  incidents,
	}

	s.mcp = server.NewMCPServer(
		"safetydesk",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(classifyIntentTool, s.handleClassifyIntent)
	s.mcp.AddTool(suggestCorrectiveActionsTool, s.handleSuggestCorrectiveActions)
	s.mcp.AddTool(listIncidentsTool, s.handleListIncidents)
	s.mcp.AddTool(getIncidentTool, s.handleGetIncident)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
