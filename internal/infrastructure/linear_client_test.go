package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"linear-mcp-server/internal/domain"
)

// mockAuthTransport is a test transport that adds a mock Authorization header.
type mockAuthTransport struct {
	base http.RoundTripper
}

func (t *mockAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("Authorization", "lin_api_test")
	return t.base.RoundTrip(clonedReq)
}

// getAuthenticatedClient returns an HTTP client with mock authentication.
func getAuthenticatedClient() *http.Client {
	return &http.Client{
		Transport: &mockAuthTransport{base: http.DefaultTransport},
	}
}

// capturedRequest is the decoded body of one GraphQL request.
type capturedRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// mockLinearServer answers every request with body and records the last
// request it saw.
func mockLinearServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":[{"message":"Authentication required"}]}`))
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestNewLinearClient_Defaults(t *testing.T) {
	client := NewLinearClient("", nil)
	if client.Endpoint() != domain.DefaultEndpoint {
		t.Errorf("Expected endpoint %s, got %s", domain.DefaultEndpoint, client.Endpoint())
	}
	if client.httpClient == nil {
		t.Error("Expected a default HTTP client")
	}
}

func TestLinearClient_CreateIssue(t *testing.T) {
	server, captured := mockLinearServer(t, http.StatusOK, `{"data":{"issueCreate":{"success":true,"issue":{
		"id":"uuid-1","identifier":"ENG-1","title":"Crash","url":"https://linear.app/acme/issue/ENG-1",
		"priority":2,"state":{"id":"s1","name":"Todo","type":"unstarted"},
		"parent":{"id":"uuid-0","identifier":"ENG-0","title":"Epic"},
		"children":{"nodes":[{"id":"uuid-2","identifier":"ENG-2","title":"Sub"}]}}}}}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	priority := 0.0
	payload, err := client.CreateIssue(context.Background(), domain.IssueCreateInput{
		TeamID:   "team-1",
		Title:    "Crash",
		Priority: &priority,
	})
	if err != nil {
		t.Fatalf("CreateIssue failed: %v", err)
	}

	if !payload.Success || payload.Issue == nil {
		t.Fatalf("Unexpected payload: %+v", payload)
	}
	if payload.Issue.Identifier != "ENG-1" {
		t.Errorf("Expected ENG-1, got %s", payload.Issue.Identifier)
	}
	if payload.Issue.Parent == nil || payload.Issue.Parent.Identifier != "ENG-0" {
		t.Errorf("Unexpected parent: %+v", payload.Issue.Parent)
	}
	if payload.Issue.Children == nil || len(payload.Issue.Children.Nodes) != 1 {
		t.Errorf("Unexpected children: %+v", payload.Issue.Children)
	}

	if captured.OperationName != "IssueCreate" {
		t.Errorf("Expected operation IssueCreate, got %s", captured.OperationName)
	}
	input, ok := captured.Variables["input"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected input variable, got %v", captured.Variables)
	}
	if input["teamId"] != "team-1" || input["title"] != "Crash" {
		t.Errorf("Unexpected input: %v", input)
	}
	if input["description"] != "" {
		t.Errorf("Expected empty description to be sent, got %v", input["description"])
	}
	if input["priority"] != 0.0 {
		t.Errorf("Expected priority 0 to be sent, got %v", input["priority"])
	}
	if _, present := input["assigneeId"]; present {
		t.Error("Expected unset assigneeId to be omitted")
	}
}

func TestLinearClient_CreateIssues(t *testing.T) {
	server, captured := mockLinearServer(t, http.StatusOK, `{"data":{"issueBatchCreate":{"success":true,"issues":[
		{"id":"1","identifier":"ENG-1","title":"a"},{"id":"2","identifier":"ENG-2","title":"b"}]}}}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	payload, err := client.CreateIssues(context.Background(), []domain.IssueCreateInput{
		{TeamID: "t", Title: "a"},
		{TeamID: "t", Title: "b"},
	})
	if err != nil {
		t.Fatalf("CreateIssues failed: %v", err)
	}
	if len(payload.Issues) != 2 {
		t.Errorf("Expected 2 issues, got %d", len(payload.Issues))
	}

	input := captured.Variables["input"].(map[string]interface{})
	issues, ok := input["issues"].([]interface{})
	if !ok || len(issues) != 2 {
		t.Errorf("Expected input.issues with 2 entries, got %v", input["issues"])
	}
}

func TestLinearClient_UpdateIssues(t *testing.T) {
	server, captured := mockLinearServer(t, http.StatusOK, `{"data":{"issueBatchUpdate":{"success":true}}}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	payload, err := client.UpdateIssues(context.Background(), []string{"A", "B"}, domain.IssuePatch{"stateId": "done"})
	if err != nil {
		t.Fatalf("UpdateIssues failed: %v", err)
	}
	if !payload.Success {
		t.Error("Expected success")
	}

	if captured.OperationName != "IssueBatchUpdate" {
		t.Errorf("Expected operation IssueBatchUpdate, got %s", captured.OperationName)
	}
	ids := captured.Variables["ids"].([]interface{})
	if len(ids) != 2 || ids[0] != "A" {
		t.Errorf("Unexpected ids: %v", ids)
	}
	if captured.Variables["input"].(map[string]interface{})["stateId"] != "done" {
		t.Errorf("Unexpected input: %v", captured.Variables["input"])
	}
}

func TestLinearClient_UpdateIssue(t *testing.T) {
	server, captured := mockLinearServer(t, http.StatusOK, `{"data":{"issueUpdate":{"success":true,"issue":{
		"id":"uuid-5","identifier":"ENG-5","title":"Renamed","url":"u","updatedAt":"2024-05-01T00:00:00Z"}}}}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	payload, err := client.UpdateIssue(context.Background(), "ENG-5", domain.IssuePatch{"priority": 2.0})
	if err != nil {
		t.Fatalf("UpdateIssue failed: %v", err)
	}
	if payload.Issue == nil || payload.Issue.UpdatedAt != "2024-05-01T00:00:00Z" {
		t.Errorf("Unexpected issue: %+v", payload.Issue)
	}

	if captured.Variables["id"] != "ENG-5" {
		t.Errorf("Expected id ENG-5, got %v", captured.Variables["id"])
	}
	if captured.Variables["input"].(map[string]interface{})["priority"] != 2.0 {
		t.Errorf("Expected numeric priority, got %v", captured.Variables["input"])
	}
}

func TestLinearClient_UpdateIssue_NilPatchIsObject(t *testing.T) {
	server, captured := mockLinearServer(t, http.StatusOK, `{"data":{"issueUpdate":{"success":false}}}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	if _, err := client.UpdateIssue(context.Background(), "ENG-5", nil); err != nil {
		t.Fatalf("UpdateIssue failed: %v", err)
	}
	if _, ok := captured.Variables["input"].(map[string]interface{}); !ok {
		t.Errorf("Expected input to be an object, got %v", captured.Variables["input"])
	}
}

func TestLinearClient_SearchIssues_Filter(t *testing.T) {
	server, captured := mockLinearServer(t, http.StatusOK, `{"data":{"issues":{
		"nodes":[{"id":"1","identifier":"X-1","title":"a","comments":{"nodes":[{"id":"c","body":"hi"}]}}],
		"pageInfo":{"hasNextPage":true,"endCursor":"abc"}}}}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	conn, err := client.SearchIssues(context.Background(), domain.IssueSearch{
		Filter:          domain.NewIssueFilterBuilder().IdentifierIn([]string{"X-1"}).Priority(0).Build(),
		First:           1,
		IncludeComments: true,
	})
	if err != nil {
		t.Fatalf("SearchIssues failed: %v", err)
	}
	if len(conn.Nodes) != 1 || conn.Nodes[0].Comments == nil {
		t.Fatalf("Unexpected nodes: %+v", conn.Nodes)
	}
	if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor != "abc" {
		t.Errorf("Unexpected page info: %+v", conn.PageInfo)
	}

	if captured.OperationName != "Issues" {
		t.Errorf("Expected operation Issues, got %s", captured.OperationName)
	}
	if captured.Variables["withComments"] != true {
		t.Error("Expected withComments=true")
	}
	if captured.Variables["first"] != 1.0 {
		t.Errorf("Expected first=1, got %v", captured.Variables["first"])
	}
	if _, present := captured.Variables["after"]; present {
		t.Error("Expected empty cursor to be omitted")
	}

	filter := captured.Variables["filter"].(map[string]interface{})
	identifier := filter["identifier"].(map[string]interface{})
	if in := identifier["in"].([]interface{}); len(in) != 1 || in[0] != "X-1" {
		t.Errorf("Unexpected identifier filter: %v", identifier)
	}
	if _, present := identifier["eq"]; present {
		t.Error("Expected unset eq to be omitted")
	}
	if priority := filter["priority"].(map[string]interface{}); priority["eq"] != 0.0 {
		t.Errorf("Expected priority eq 0, got %v", priority)
	}
	if !strings.Contains(captured.Query, "@include(if: $withComments)") {
		t.Error("Expected comments to be conditional")
	}
}

func TestLinearClient_SearchIssues_Term(t *testing.T) {
	server, captured := mockLinearServer(t, http.StatusOK, `{"data":{"searchIssues":{"nodes":[],"pageInfo":{"hasNextPage":false}}}}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	conn, err := client.SearchIssues(context.Background(), domain.IssueSearch{
		Term:    "crash",
		First:   50,
		After:   "cur",
		OrderBy: "updatedAt",
	})
	if err != nil {
		t.Fatalf("SearchIssues failed: %v", err)
	}
	if len(conn.Nodes) != 0 {
		t.Errorf("Expected no nodes, got %d", len(conn.Nodes))
	}

	if captured.OperationName != "SearchIssues" {
		t.Errorf("Expected operation SearchIssues, got %s", captured.OperationName)
	}
	if captured.Variables["term"] != "crash" || captured.Variables["after"] != "cur" || captured.Variables["orderBy"] != "updatedAt" {
		t.Errorf("Unexpected variables: %v", captured.Variables)
	}
	if _, present := captured.Variables["filter"]; present {
		t.Error("Expected empty filter to be omitted")
	}
}

func TestLinearClient_DeleteIssue(t *testing.T) {
	server, captured := mockLinearServer(t, http.StatusOK, `{"data":{"issueDelete":{"success":true}}}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	payload, err := client.DeleteIssue(context.Background(), "ENG-9")
	if err != nil {
		t.Fatalf("DeleteIssue failed: %v", err)
	}
	if !payload.Success {
		t.Error("Expected success")
	}
	if captured.Variables["id"] != "ENG-9" {
		t.Errorf("Expected id ENG-9, got %v", captured.Variables["id"])
	}
}

func TestLinearClient_ListTeams(t *testing.T) {
	server, captured := mockLinearServer(t, http.StatusOK, `{"data":{"teams":{"nodes":[{"id":"t1","key":"ENG","name":"Engineering"}]}}}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	teams, err := client.ListTeams(context.Background())
	if err != nil {
		t.Fatalf("ListTeams failed: %v", err)
	}
	if len(teams) != 1 || teams[0].Key != "ENG" {
		t.Errorf("Unexpected teams: %+v", teams)
	}
	if captured.Variables != nil {
		t.Errorf("Expected no variables, got %v", captured.Variables)
	}
}

func TestLinearClient_GraphQLErrors(t *testing.T) {
	server, _ := mockLinearServer(t, http.StatusOK, `{"data":null,"errors":[{"message":"Entity not found"},{"message":"Argument invalid"}]}`)

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	_, err := client.DeleteIssue(context.Background(), "nope")

	var gqlErr *domain.GraphQLError
	if !errors.As(err, &gqlErr) {
		t.Fatalf("Expected GraphQLError, got %T: %v", err, err)
	}
	if len(gqlErr.Messages) != 2 || gqlErr.Messages[0] != "Entity not found" {
		t.Errorf("Unexpected messages: %v", gqlErr.Messages)
	}
}

func TestLinearClient_HTTPErrorHandling(t *testing.T) {
	testCases := []struct {
		name         string
		status       int
		expectedCode int
	}{
		{"bad request", http.StatusBadRequest, domain.InvalidParams},
		{"rate limited", http.StatusTooManyRequests, domain.RateLimitError},
		{"server error", http.StatusInternalServerError, domain.APIError},
	}

	mapper := domain.NewResponseMapper()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, _ := mockLinearServer(t, tc.status, `{"errors":[{"message":"nope"}]}`)
			client := NewLinearClient(server.URL, getAuthenticatedClient())

			_, err := client.ListTeams(context.Background())

			var httpErr domain.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("Expected HTTPError, got %T: %v", err, err)
			}
			if httpErr.StatusCode != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, httpErr.StatusCode)
			}
			if code := mapper.MapError(err).Code; code != tc.expectedCode {
				t.Errorf("Expected code %d, got %d", tc.expectedCode, code)
			}
		})
	}
}

func TestLinearClient_Unauthenticated(t *testing.T) {
	server, _ := mockLinearServer(t, http.StatusOK, `{}`)
	client := NewLinearClient(server.URL, http.DefaultClient)

	_, err := client.ListTeams(context.Background())

	var httpErr domain.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401 HTTPError, got %v", err)
	}
	if code := domain.NewResponseMapper().MapError(err).Code; code != domain.AuthenticationError {
		t.Errorf("Expected AuthenticationError, got %d", code)
	}
}

func TestLinearClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewLinearClient(server.URL, getAuthenticatedClient())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.ListTeams(ctx)
	if err == nil {
		t.Fatal("Expected error after context deadline")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
	if code := domain.NewResponseMapper().MapError(err).Code; code != domain.NetworkError {
		t.Errorf("Expected NetworkError, got %d", code)
	}
}

func TestLinearClient_MalformedResponse(t *testing.T) {
	server, _ := mockLinearServer(t, http.StatusOK, `not json`)
	client := NewLinearClient(server.URL, getAuthenticatedClient())

	_, err := client.ListTeams(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
		t.Errorf("Expected decode error, got %v", err)
	}
}
