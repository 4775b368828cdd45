package application

import (
	"context"
	"errors"
	"testing"

	"linear-mcp-server/internal/domain"
)

// mockHandler is a test implementation of ToolHandler
type mockHandler struct {
	name  string
	tools []domain.ToolDefinition
}

func (m *mockHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Echo the tool name so tests can see who handled the call
	return domain.NewTextResponse("Handled by " + m.name + ": " + req.Name), nil
}

func (m *mockHandler) ListTools() []domain.ToolDefinition {
	return m.tools
}

func (m *mockHandler) ToolName() string {
	return m.name
}

// TestNewRequestRouter tests router creation with multiple handlers
func TestNewRequestRouter(t *testing.T) {
	linearHandler := &mockHandler{
		name: "linear",
		tools: []domain.ToolDefinition{
			{Name: "linear_get_issue", Description: "Get Linear issue"},
		},
	}
	adminHandler := &mockHandler{
		name: "admin",
		tools: []domain.ToolDefinition{
			{Name: "admin_status", Description: "Status"},
		},
	}

	router := NewRequestRouter(linearHandler, adminHandler)

	if len(router.handlers) != 2 {
		t.Errorf("Expected 2 handlers, got %d", len(router.handlers))
	}

	if handler, exists := router.GetHandler("linear"); !exists || handler != linearHandler {
		t.Error("Linear handler not registered correctly")
	}

	if handler, exists := router.GetHandler("admin"); !exists || handler != adminHandler {
		t.Error("Admin handler not registered correctly")
	}
}

// TestRouteToLinearHandler tests routing by tool-name prefix
func TestRouteToLinearHandler(t *testing.T) {
	router := NewRequestRouter(&mockHandler{name: "linear"}, &mockHandler{name: "admin"})

	resp, err := router.Route(context.Background(), &domain.ToolRequest{
		Name:      "linear_search_issues_by_identifier",
		Arguments: map[string]interface{}{},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := "Handled by linear: linear_search_issues_by_identifier"
	if resp.Content[0].Text != expected {
		t.Errorf("Expected '%s', got '%s'", expected, resp.Content[0].Text)
	}
}

// TestRouteUnknownTool tests that an unregistered prefix is MethodNotFound
func TestRouteUnknownTool(t *testing.T) {
	router := NewRequestRouter(&mockHandler{name: "linear"})

	_, err := router.Route(context.Background(), &domain.ToolRequest{Name: "github_get_issue"})
	if err == nil {
		t.Fatal("Expected error for unknown tool, got nil")
	}

	var rpcErr *domain.Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("Expected *domain.Error, got %T", err)
	}
	if rpcErr.Code != domain.MethodNotFound {
		t.Errorf("Expected code %d, got %d", domain.MethodNotFound, rpcErr.Code)
	}
}

// TestRouteInvalidToolNameFormat tests names without a handler prefix
func TestRouteInvalidToolNameFormat(t *testing.T) {
	router := NewRequestRouter(&mockHandler{name: "linear"})

	for _, name := range []string{"linear", "", "_get_issue"} {
		t.Run(name, func(t *testing.T) {
			_, err := router.Route(context.Background(), &domain.ToolRequest{Name: name})
			var rpcErr *domain.Error
			if !errors.As(err, &rpcErr) || rpcErr.Code != domain.MethodNotFound {
				t.Errorf("Expected MethodNotFound for %q, got %v", name, err)
			}
		})
	}
}

// TestListAllTools tests aggregation and ordering of tool definitions
func TestListAllTools(t *testing.T) {
	router := NewRequestRouter(
		&mockHandler{
			name: "linear",
			tools: []domain.ToolDefinition{
				{Name: "linear_search_issues"},
				{Name: "linear_create_issue"},
			},
		},
		&mockHandler{
			name:  "admin",
			tools: []domain.ToolDefinition{{Name: "admin_status"}},
		},
	)

	tools := router.ListAllTools()
	if len(tools) != 3 {
		t.Fatalf("Expected 3 tools, got %d", len(tools))
	}

	expected := []string{"admin_status", "linear_create_issue", "linear_search_issues"}
	for i, name := range expected {
		if tools[i].Name != name {
			t.Errorf("Tool %d: expected '%s', got '%s'", i, name, tools[i].Name)
		}
	}
}

// TestListAllToolsEmptyRouter tests that an empty router lists no tools
func TestListAllToolsEmptyRouter(t *testing.T) {
	tools := NewRequestRouter().ListAllTools()
	if tools == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(tools) != 0 {
		t.Errorf("Expected 0 tools, got %d", len(tools))
	}
}

func TestExtractHandlerName(t *testing.T) {
	testCases := []struct {
		toolName     string
		expectedName string
	}{
		{"linear_get_issue", "linear"},
		{"linear_search_issues_by_identifier", "linear"},
		{"admin_status", "admin"},
		{"invalidname", ""}, // No underscore
		{"_leading", ""},    // Empty prefix
		{"", ""},            // Empty string
	}

	for _, tc := range testCases {
		t.Run(tc.toolName, func(t *testing.T) {
			result := extractHandlerName(tc.toolName)
			if result != tc.expectedName {
				t.Errorf("For tool name '%s', expected handler '%s', got '%s'",
					tc.toolName, tc.expectedName, result)
			}
		})
	}
}

// TestRouterWithIssueHandler tests that every tool the issue handler
// advertises routes back to it.
func TestRouterWithIssueHandler(t *testing.T) {
	handler := NewIssueHandler(nil, nil, nil, "")
	router := NewRequestRouter(handler)

	for _, tool := range router.ListAllTools() {
		name := extractHandlerName(tool.Name)
		got, ok := router.GetHandler(name)
		if !ok || got != handler {
			t.Errorf("Tool %s does not route to the issue handler", tool.Name)
		}
	}
}
