package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/patlanio/whispeer/pkg/api"
	"github.com/patlanio/whispeer/pkg/db"
	"github.com/patlanio/whispeer/pkg/learning"
)

// Server wraps the MCP server with Whispeer's remote-control functionality
type Server struct {
	mcpServer *server.MCPServer
	store     *db.DB
	registry  *learning.Registry
	ble       api.BLEBackend
	broadlink api.BroadlinkBackend
}

// NewServer creates a new MCP server for remote-control operations
func NewServer(store *db.DB, registry *learning.Registry, ble api.BLEBackend, broadlink api.BroadlinkBackend) *Server {
	s := &Server{
		store:     store,
		registry:  registry,
		ble:       ble,
		broadlink: broadlink,
	}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"whispeer",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
