package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/statboard/internal/refresh"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the stat board as tools.
type Server struct {
	svc *refresh.Service
	mcp *server.MCPServer
}

// NewServer creates a new MCP server backed by svc.
func NewServer(svc *refresh.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"statboard",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(getCodingStatsTool, s.handleGetCodingStats)
	s.mcp.AddTool(listSourcesTool, s.handleListSources)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
