package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"linear-mcp-server/internal/domain"
)

// RequestRouter dispatches MCP tool requests to the appropriate ToolHandler.
// Handlers are keyed by the tool-name prefix they own.
type RequestRouter struct {
	handlers map[string]domain.ToolHandler
}

// NewRequestRouter creates a new RequestRouter with the provided handlers.
// Handlers are registered by their ToolName() identifier.
func NewRequestRouter(handlers ...domain.ToolHandler) *RequestRouter {
	router := &RequestRouter{
		handlers: make(map[string]domain.ToolHandler),
	}

	for _, handler := range handlers {
		router.handlers[handler.ToolName()] = handler
	}

	return router
}

// Route dispatches a tool request to the appropriate handler based on the tool name.
// Tool names follow the pattern: <handler>_<operation> (e.g., linear_get_issue).
// An unknown or malformed tool name yields a MethodNotFound error.
func (r *RequestRouter) Route(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	handlerName := extractHandlerName(req.Name)
	if handlerName == "" {
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("invalid tool name format: %s (expected format: <handler>_<operation>)", req.Name),
		}
	}

	handler, exists := r.handlers[handlerName]
	if !exists {
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown tool: %s (no handler registered for '%s')", req.Name, handlerName),
		}
	}

	return handler.Handle(ctx, req)
}

// ListAllTools aggregates tool definitions from all registered handlers,
// sorted by name so tools/list output is stable.
func (r *RequestRouter) ListAllTools() []domain.ToolDefinition {
	allTools := []domain.ToolDefinition{}
	for _, handler := range r.handlers {
		allTools = append(allTools, handler.ListTools()...)
	}

	sort.Slice(allTools, func(i, j int) bool {
		return allTools[i].Name < allTools[j].Name
	})
	return allTools
}

// extractHandlerName extracts the handler identifier from a tool name.
// For example: "linear_get_issue" -> "linear"
func extractHandlerName(toolName string) string {
	idx := strings.Index(toolName, "_")
	if idx <= 0 {
		return ""
	}
	return toolName[:idx]
}

// GetHandler returns the handler registered under handlerName.
func (r *RequestRouter) GetHandler(handlerName string) (domain.ToolHandler, bool) {
	handler, exists := r.handlers[handlerName]
	return handler, exists
}
