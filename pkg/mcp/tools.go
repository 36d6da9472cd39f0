package mcp

import "github.com/mark3labs/mcp-go/mcp"

// ToolNames lists every registered tool in registration order.
var ToolNames = []string{
	"list_categories",
	"list_components",
	"get_component",
	"get_new_components",
	"search_components",
	"get_component_code",
	"get_component_usage",
	"get_component_page",
}

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("List component categories with their ids and component counts."),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List components, optionally filtered by category id and a keyword matched against name, description and tags."),
		mcp.WithString("category", mcp.Description("Category id, e.g. text-animations")),
		mcp.WithString("keyword", mcp.Description("Case-insensitive keyword")),
	)
}

func getComponentTool() mcp.Tool {
	return mcp.NewTool("get_component",
		mcp.WithDescription("Get one component with its category, doc path, source, usage example, npm dependencies and exports."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Component slug, e.g. gradient-text")),
	)
}

func getNewComponentsTool() mcp.Tool {
	return mcp.NewTool("get_new_components",
		mcp.WithDescription("List components flagged as new."),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Search components by name, description or tag."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
	)
}

func getComponentCodeTool() mcp.Tool {
	return mcp.NewTool("get_component_code",
		mcp.WithDescription("Get the copy-paste source of a component."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Component slug")),
	)
}

func getComponentUsageTool() mcp.Tool {
	return mcp.NewTool("get_component_usage",
		mcp.WithDescription("Get the usage example of a component."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Component slug")),
	)
}

func getComponentPageTool() mcp.Tool {
	return mcp.NewTool("get_component_page",
		mcp.WithDescription("Get a component documentation page rendered as markdown."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category id")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Component slug")),
	)
}
