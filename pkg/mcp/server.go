// Package mcp exposes the component registry, snippet source and rendered
// doc pages as MCP tools over stdio.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/mcplog"
	"github.com/gnana997/reactatoms/pkg/site"
)

const serverName = "reactatoms"

// PageRenderer renders one site path. *site.Server implements it.
type PageRenderer interface {
	RenderPath(ctx context.Context, target string) (*site.Rendered, error)
}

// Server implements the MCP server. Every call reads the bundle current at
// the time of the call.
type Server struct {
	mcpServer *server.MCPServer
	holder    *bundle.Holder
	pages     PageRenderer
	markdown  *pageConverter
	callLog   *mcplog.Logger
	logger    *slog.Logger
	version   string
}

// Option configures a Server.
type Option func(*Server)

// WithCallLog records every tool call as a JSONL line.
func WithCallLog(l *mcplog.Logger) Option {
	return func(s *Server) { s.callLog = l }
}

// WithLogger sets the diagnostic logger. It must not write to stdout.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithVersion sets the version reported during initialize.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates the MCP server. pages may be nil, in which case
// get_component_page reports a tool error.
func NewServer(holder *bundle.Holder, pages PageRenderer, opts ...Option) *Server {
	s := &Server{
		holder:   holder,
		pages:    pages,
		markdown: newPageConverter(),
		logger:   slog.Default(),
		version:  "0.1.0-dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if s.callLog != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer(serverName, s.version, serverOpts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listCategoriesTool(), Handler: s.handleListCategories},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentTool(), Handler: s.handleGetComponent},
		server.ServerTool{Tool: getNewComponentsTool(), Handler: s.handleGetNewComponents},
		server.ServerTool{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
		server.ServerTool{Tool: getComponentCodeTool(), Handler: s.handleGetComponentCode},
		server.ServerTool{Tool: getComponentUsageTool(), Handler: s.handleGetComponentUsage},
		server.ServerTool{Tool: getComponentPageTool(), Handler: s.handleGetComponentPage},
	)
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	b := s.holder.Current()
	s.logger.Info("MCP server ready",
		"bundle", b.Name,
		"version", b.Version(),
		"components", len(b.Catalog.ListComponents()))
	return server.ServeStdio(s.mcpServer)
}
