package domain

import (
	"context"
)

// ToolHandler processes tool calls for one family of tools.
// Tools are named <handler>_<operation>, and the router uses ToolName to
// find the handler that owns a given prefix.
type ToolHandler interface {
	// Handle executes a tool call. Operation failures are reported in the
	// returned ToolResponse with IsError set; a non-nil error means the
	// call could not be dispatched at all (e.g. an unknown tool name).
	Handle(ctx context.Context, req *ToolRequest) (*ToolResponse, error)

	// ListTools returns the tools this handler serves.
	ListTools() []ToolDefinition

	// ToolName returns the tool-name prefix owned by this handler.
	ToolName() string
}
