package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/statboard/internal/display"
)

// handleGetCodingStats optionally refreshes the board and returns it as Markdown.
func (s *Server) handleGetCodingStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := request.GetString("source", "")
	if source != "" {
		if _, ok := s.svc.Board().Source(source); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown source %q. Use list_sources to see configured sources.", source)), nil
		}
	}

	if request.GetBool("refresh", true) {
		if source != "" {
			s.svc.RefreshOne(ctx, source)
		} else {
			s.svc.Refresh(ctx)
		}
	}

	snap := s.svc.Board().Snapshot()
	if source != "" {
		view, _ := s.svc.Board().Source(source)
		snap = display.Snapshot{Sources: []display.SourceView{view}}
	}

	return mcp.NewToolResultText(display.Markdown(snap)), nil
}

// handleListSources lists every source on the board with its categories.
func (s *Server) handleListSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.svc.Board().Snapshot()
	if len(snap.Sources) == 0 {
		return mcp.NewToolResultText("No sources configured. Run `statboard init` to create a configuration."), nil
	}

	var sb strings.Builder
	for _, src := range snap.Sources {
		cats := make([]string, 0, len(src.Slots))
		for _, slot := range src.Slots {
			cats = append(cats, slot.Category)
		}
		fmt.Fprintf(&sb, "- %s: %s\n", src.Name, strings.Join(cats, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
