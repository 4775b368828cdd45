package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"linear-mcp-server/internal/domain"
)

// issueSelection is the field set requested for every issue node.
// Comments are only fetched when $withComments is true.
const issueSelection = `
      id
      identifier
      title
      description
      url
      priority
      estimate
      sortOrder
      dueDate
      createdAt
      updatedAt
      state { id name type }
      assignee { id name email }
      project { id name }
      team { id key name }
      labels { nodes { id name } }
      parent { id identifier title }`

const (
	mutationIssueCreate = `mutation IssueCreate($input: IssueCreateInput!) {
  issueCreate(input: $input) {
    success
    issue {` + issueSelection + `
      children { nodes { id identifier title } }
    }
  }
}`

	mutationIssueBatchCreate = `mutation IssueBatchCreate($input: IssueBatchCreateInput!) {
  issueBatchCreate(input: $input) {
    success
    issues {` + issueSelection + `
    }
  }
}`

	mutationIssueBatchUpdate = `mutation IssueBatchUpdate($ids: [UUID!]!, $input: IssueUpdateInput!) {
  issueBatchUpdate(ids: $ids, input: $input) {
    success
  }
}`

	mutationIssueUpdate = `mutation IssueUpdate($id: String!, $input: IssueUpdateInput!) {
  issueUpdate(id: $id, input: $input) {
    success
    issue { id identifier title url updatedAt }
  }
}`

	mutationIssueDelete = `mutation IssueDelete($id: String!) {
  issueDelete(id: $id) {
    success
  }
}`

	queryIssues = `query Issues($filter: IssueFilter, $first: Int, $after: String, $orderBy: PaginationOrderBy, $withComments: Boolean!) {
  issues(filter: $filter, first: $first, after: $after, orderBy: $orderBy) {
    nodes {` + issueSelection + `
      children { nodes { id identifier title } }
      comments @include(if: $withComments) { nodes { id body createdAt user { id name } } }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

	querySearchIssues = `query SearchIssues($term: String!, $filter: IssueFilter, $first: Int, $after: String, $orderBy: PaginationOrderBy, $withComments: Boolean!) {
  searchIssues(term: $term, filter: $filter, first: $first, after: $after, orderBy: $orderBy) {
    nodes {` + issueSelection + `
      children { nodes { id identifier title } }
      comments @include(if: $withComments) { nodes { id body createdAt user { id name } } }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

	queryTeams = `query Teams {
  teams {
    nodes { id key name }
  }
}`
)

// LinearClient talks to the Linear GraphQL API. It implements
// domain.IssueClient.
type LinearClient struct {
	endpoint   string
	httpClient *http.Client
}

var _ domain.IssueClient = (*LinearClient)(nil)

// NewLinearClient creates a client for the given GraphQL endpoint. The
// httpClient should come from the AuthenticationManager so requests carry
// credentials.
func NewLinearClient(endpoint string, httpClient *http.Client) *LinearClient {
	if endpoint == "" {
		endpoint = domain.DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LinearClient{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// Endpoint returns the configured GraphQL endpoint.
func (c *LinearClient) Endpoint() string {
	return c.endpoint
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// do posts one GraphQL operation and decodes its data into out.
func (c *LinearClient) do(ctx context.Context, operation, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{
		Query:         query,
		OperationName: operation,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), string(respBody))
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			messages = append(messages, e.Message)
		}
		return &domain.GraphQLError{Messages: messages}
	}

	if out == nil || len(gqlResp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", operation, err)
	}
	return nil
}

// CreateIssue creates a single issue.
func (c *LinearClient) CreateIssue(ctx context.Context, input domain.IssueCreateInput) (*domain.IssueCreatePayload, error) {
	var data struct {
		IssueCreate domain.IssueCreatePayload `json:"issueCreate"`
	}
	vars := map[string]interface{}{"input": input}
	if err := c.do(ctx, "IssueCreate", mutationIssueCreate, vars, &data); err != nil {
		return nil, err
	}
	return &data.IssueCreate, nil
}

// CreateIssues creates several issues in one mutation.
func (c *LinearClient) CreateIssues(ctx context.Context, inputs []domain.IssueCreateInput) (*domain.IssueBatchCreatePayload, error) {
	var data struct {
		IssueBatchCreate domain.IssueBatchCreatePayload `json:"issueBatchCreate"`
	}
	if inputs == nil {
		inputs = []domain.IssueCreateInput{}
	}
	vars := map[string]interface{}{
		"input": map[string]interface{}{"issues": inputs},
	}
	if err := c.do(ctx, "IssueBatchCreate", mutationIssueBatchCreate, vars, &data); err != nil {
		return nil, err
	}
	return &data.IssueBatchCreate, nil
}

// UpdateIssues applies the same patch to every id. Linear acknowledges
// the batch with a single success flag.
func (c *LinearClient) UpdateIssues(ctx context.Context, ids []string, patch domain.IssuePatch) (*domain.IssueUpdatePayload, error) {
	var data struct {
		IssueBatchUpdate domain.IssueUpdatePayload `json:"issueBatchUpdate"`
	}
	if ids == nil {
		ids = []string{}
	}
	vars := map[string]interface{}{
		"ids":   ids,
		"input": nonNilPatch(patch),
	}
	if err := c.do(ctx, "IssueBatchUpdate", mutationIssueBatchUpdate, vars, &data); err != nil {
		return nil, err
	}
	return &data.IssueBatchUpdate, nil
}

// UpdateIssue applies a patch to one issue.
func (c *LinearClient) UpdateIssue(ctx context.Context, id string, patch domain.IssuePatch) (*domain.IssueUpdatePayload, error) {
	var data struct {
		IssueUpdate domain.IssueUpdatePayload `json:"issueUpdate"`
	}
	vars := map[string]interface{}{
		"id":    id,
		"input": nonNilPatch(patch),
	}
	if err := c.do(ctx, "IssueUpdate", mutationIssueUpdate, vars, &data); err != nil {
		return nil, err
	}
	return &data.IssueUpdate, nil
}

// SearchIssues fetches one page of issues. A non-empty Term switches to
// Linear's full-text search; the filter applies either way.
func (c *LinearClient) SearchIssues(ctx context.Context, search domain.IssueSearch) (*domain.IssueConnection, error) {
	vars := map[string]interface{}{
		"withComments": search.IncludeComments,
	}
	if !search.Filter.IsEmpty() {
		vars["filter"] = search.Filter
	}
	if search.First > 0 {
		vars["first"] = search.First
	}
	if search.After != "" {
		vars["after"] = search.After
	}
	if search.OrderBy != "" {
		vars["orderBy"] = search.OrderBy
	}

	if search.Term != "" {
		vars["term"] = search.Term
		var data struct {
			SearchIssues domain.IssueConnection `json:"searchIssues"`
		}
		if err := c.do(ctx, "SearchIssues", querySearchIssues, vars, &data); err != nil {
			return nil, err
		}
		return &data.SearchIssues, nil
	}

	var data struct {
		Issues domain.IssueConnection `json:"issues"`
	}
	if err := c.do(ctx, "Issues", queryIssues, vars, &data); err != nil {
		return nil, err
	}
	return &data.Issues, nil
}

// DeleteIssue deletes (trashes) one issue.
func (c *LinearClient) DeleteIssue(ctx context.Context, id string) (*domain.IssueDeletePayload, error) {
	var data struct {
		IssueDelete domain.IssueDeletePayload `json:"issueDelete"`
	}
	if err := c.do(ctx, "IssueDelete", mutationIssueDelete, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, err
	}
	return &data.IssueDelete, nil
}

// ListTeams returns every team visible to the credentials.
func (c *LinearClient) ListTeams(ctx context.Context) ([]domain.Team, error) {
	var data struct {
		Teams struct {
			Nodes []domain.Team `json:"nodes"`
		} `json:"teams"`
	}
	if err := c.do(ctx, "Teams", queryTeams, nil, &data); err != nil {
		return nil, err
	}
	return data.Teams.Nodes, nil
}

func nonNilPatch(patch domain.IssuePatch) domain.IssuePatch {
	if patch == nil {
		return domain.IssuePatch{}
	}
	return patch
}
