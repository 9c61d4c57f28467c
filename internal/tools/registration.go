package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registration pairs an MCP tool definition with its handler. Tool packages
// return slices of these so main can register everything in one pass.
type Registration struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// RegisterAll adds every registration to the MCP server.
func RegisterAll(s *server.MCPServer, regs []Registration) {
	for _, reg := range regs {
		s.AddTool(reg.Tool, reg.Handler)
	}
}
