package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/reactatoms/pkg/mcplog"
)

// loggingMiddleware writes one call log entry per tool call. Only
// installed when a call log is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			entry := mcplog.NewEntry(start, req.Params.Name, req.GetArguments(), result, err)
			entry.Bundle = s.holder.Current().Version()
			if werr := s.callLog.Write(entry); werr != nil {
				s.logger.Debug("failed to write call log", "error", werr)
			}
			return result, err
		}
	}
}
