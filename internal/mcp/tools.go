package mcp

import "github.com/mark3labs/mcp-go/mcp"

// getCodingStatsTool defines the get_coding_stats MCP tool.
var getCodingStatsTool = mcp.NewTool("get_coding_stats",
	mcp.WithDescription("Get problems-solved statistics from the configured coding profiles (LeetCode, Codeforces, ...). Unavailable sources show N/A."),
	mcp.WithString("source",
		mcp.Description("Only return this source, e.g. \"leetcode\""),
	),
	mcp.WithBoolean("refresh",
		mcp.Description("Fetch fresh stats before answering (default true)"),
	),
)

// listSourcesTool defines the list_sources MCP tool.
var listSourcesTool = mcp.NewTool("list_sources",
	mcp.WithDescription("List the configured stat sources and the categories each reports."),
)
