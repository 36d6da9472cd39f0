package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/reactatoms/pkg/catalog"
	"github.com/gnana997/reactatoms/pkg/docs"
)

func (s *Server) handleListCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.holder.Current().Catalog.ListCategories())
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := s.holder.Current().Catalog
	category := req.GetString("category", "")
	if category != "" {
		if _, ok := q.CategoryByID(category); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("category %q not found", category)), nil
		}
	}
	return jsonResult(nonNil(q.FilterComponents(category, req.GetString("keyword", ""))))
}

func (s *Server) handleGetComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, errResult := requireString(req, "slug")
	if errResult != nil {
		return errResult, nil
	}
	detail, ok := s.holder.Current().Detail(slug)
	if !ok {
		return notFound(slug), nil
	}
	return jsonResult(detail)
}

func (s *Server) handleGetNewComponents(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(nonNil(s.holder.Current().Catalog.NewComponents()))
}

func (s *Server) handleSearchComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, errResult := requireString(req, "query")
	if errResult != nil {
		return errResult, nil
	}
	results := s.holder.Current().Catalog.SearchComponents(query)
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no components found matching %q", query)), nil
	}
	return jsonResult(results)
}

func (s *Server) handleGetComponentCode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, errResult := requireString(req, "slug")
	if errResult != nil {
		return errResult, nil
	}
	b := s.holder.Current()
	if _, ok := b.Catalog.ComponentBySlug(slug); !ok {
		return notFound(slug), nil
	}
	return mcp.NewToolResultText(b.Snippets.Code(slug)), nil
}

func (s *Server) handleGetComponentUsage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, errResult := requireString(req, "slug")
	if errResult != nil {
		return errResult, nil
	}
	b := s.holder.Current()
	if _, ok := b.Catalog.ComponentBySlug(slug); !ok {
		return notFound(slug), nil
	}
	return mcp.NewToolResultText(b.Snippets.Usage(slug)), nil
}

// handleGetComponentPage renders the doc page through the site handler and
// converts its main element to markdown.
func (s *Server) handleGetComponentPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, errResult := requireString(req, "category")
	if errResult != nil {
		return errResult, nil
	}
	slug, errResult := requireString(req, "slug")
	if errResult != nil {
		return errResult, nil
	}
	if s.pages == nil {
		return mcp.NewToolResultError("page rendering is not available"), nil
	}

	path := docs.ComponentPath(category, slug)
	rendered, err := s.pages.RenderPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	if rendered.Status == http.StatusNotFound {
		return mcp.NewToolResultError(fmt.Sprintf("no page for component %q in category %q", slug, category)), nil
	}
	if rendered.Status != http.StatusOK {
		return mcp.NewToolResultError(fmt.Sprintf("render %s: status %d", path, rendered.Status)), nil
	}

	markdown, err := s.markdown.Convert(rendered.Body)
	if err != nil {
		s.logger.Warn("failed to convert page", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(markdown), nil
}

func requireString(req mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	v := req.GetString(key, "")
	if v == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("%s is required", key))
	}
	return v, nil
}

func notFound(slug string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("component %q not found", slug))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func nonNil(in []catalog.Component) []catalog.Component {
	if in == nil {
		return []catalog.Component{}
	}
	return in
}
