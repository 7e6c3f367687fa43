package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/docaudit/pkg/audit"
	"github.com/panbanda/docaudit/pkg/config"
)

// Server wraps the MCP server and registers the docaudit tools.
type Server struct {
	server  *mcp.Server
	config  *config.Config
	factory audit.CriticFactory
}

// Option customizes a Server.
type Option func(*Server)

// WithConfig sets the configuration that tool calls start from.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithCriticFactory replaces the model backend constructor.
func WithCriticFactory(f audit.CriticFactory) Option {
	return func(s *Server) { s.factory = f }
}

// NewServer creates a new MCP server with all docaudit tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "docaudit",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, config: config.DefaultConfig()}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds the docaudit tools to the server.
func (s *Server) registerTools() {
	// Extraction only, no model calls
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_code_blocks",
		Description: describeListCodeBlocks(),
	}, s.handleListCodeBlocks)

	// Full critique run
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "audit_docstrings",
		Description: describeAuditDocstrings(),
	}, s.handleAuditDocstrings)
}
