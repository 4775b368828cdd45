package application

import (
	"context"
	"fmt"

	"linear-mcp-server/internal/domain"
	"linear-mcp-server/internal/infrastructure"
)

// IssueHandler implements ToolHandler for Linear issue operations. Each
// tool validates its arguments, calls the IssueClient, checks the
// mutation's success flag and reshapes the payload. Failures come back as
// error envelopes annotated with the tool name.
type IssueHandler struct {
	client      domain.IssueClient
	mapper      domain.ResponseMapper
	authManager *domain.AuthenticationManager
	endpoint    string
	logger      *domain.StructuredLogger
}

// NewIssueHandler creates a new IssueHandler. client may be nil when the
// server has no default credentials; calls must then carry an auth
// argument, which is resolved through authManager against endpoint.
func NewIssueHandler(client domain.IssueClient, mapper domain.ResponseMapper, authManager *domain.AuthenticationManager, endpoint string) *IssueHandler {
	if mapper == nil {
		mapper = domain.NewResponseMapper()
	}
	return &IssueHandler{
		client:      client,
		mapper:      mapper,
		authManager: authManager,
		endpoint:    endpoint,
		logger:      domain.NewStructuredLogger(),
	}
}

// WithLogger replaces the handler's logger.
func (h *IssueHandler) WithLogger(logger *domain.StructuredLogger) *IssueHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Tool name constants for Linear issue operations
const (
	ToolLinearCreateIssue              = "linear_create_issue"
	ToolLinearCreateIssues             = "linear_create_issues"
	ToolLinearBulkUpdateIssues         = "linear_bulk_update_issues"
	ToolLinearSearchIssues             = "linear_search_issues"
	ToolLinearSearchIssuesByIdentifier = "linear_search_issues_by_identifier"
	ToolLinearGetIssue                 = "linear_get_issue"
	ToolLinearDeleteIssue              = "linear_delete_issue"
	ToolLinearEditIssue                = "linear_edit_issue"
	ToolLinearListTeams                = "linear_list_teams"
)

const (
	defaultSearchPageSize    = 50
	identifierSearchPageSize = 100
	defaultSearchOrderBy     = "updatedAt"
)

// ToolName returns the identifier for this handler.
func (h *IssueHandler) ToolName() string {
	return "linear"
}

// getAuthSchema returns the JSON schema for the optional per-call
// credentials accepted by every Linear tool.
func getAuthSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional authentication credentials (if not provided, uses server config)",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":        "string",
				"description": "Authentication type: 'api_key' or 'oauth'",
				"enum":        []string{"api_key", "oauth"},
			},
			"token": map[string]interface{}{
				"type":        "string",
				"description": "Personal API key or OAuth access token",
			},
		},
	}
}

func stringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func numberProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

func stringArrayProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       map[string]interface{}{"type": "string"},
	}
}

// issueInputProperties describes the fields accepted when creating an issue.
func issueInputProperties() map[string]interface{} {
	return map[string]interface{}{
		"title":       stringProperty("The issue title"),
		"description": stringProperty("The issue description (markdown)"),
		"teamId":      stringProperty("The id of the team the issue belongs to"),
		"priority":    numberProperty("Priority: 0 none, 1 urgent, 2 high, 3 medium, 4 low (optional)"),
		"assigneeId":  stringProperty("The id of the assignee (optional)"),
		"stateId":     stringProperty("The id of the workflow state (optional)"),
		"projectId":   stringProperty("The id of the project (optional)"),
		"parentId":    stringProperty("The id of the parent issue (optional)"),
		"labelIds":    stringArrayProperty("Label ids to apply (optional)"),
		"estimate":    numberProperty("Estimate in points (optional)"),
		"dueDate":     stringProperty("Due date as YYYY-MM-DD (optional)"),
	}
}

// issueUpdateProperties describes the allow-listed fields of an edit.
func issueUpdateProperties() map[string]interface{} {
	return map[string]interface{}{
		"title":       stringProperty("The new title"),
		"description": stringProperty("The new description"),
		"stateId":     stringProperty("The new workflow state id"),
		"priority":    numberProperty("The new priority (numbers given as strings are accepted)"),
		"assigneeId":  stringProperty("The new assignee id"),
		"labelIds":    stringArrayProperty("The full set of label ids"),
		"projectId":   stringProperty("The new project id"),
		"cycleId":     stringProperty("The new cycle id"),
		"parentId":    stringProperty("The new parent issue id"),
		"estimate":    numberProperty("The new estimate"),
		"dueDate":     stringProperty("The new due date as YYYY-MM-DD"),
		"sortOrder":   numberProperty("The new sort order"),
		"teamId":      stringProperty("The team to move the issue to"),
	}
}

// ListTools returns available tools for Linear operations.
func (h *IssueHandler) ListTools() []domain.ToolDefinition {
	createProps := issueInputProperties()
	createProps["auth"] = getAuthSchema()

	editProps := issueUpdateProperties()
	editProps["issueId"] = stringProperty("The id or identifier (e.g., ENG-123) of the issue to edit")
	editProps["auth"] = getAuthSchema()

	return []domain.ToolDefinition{
		{
			Name:        ToolLinearCreateIssue,
			Description: "Create a new Linear issue",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: createProps,
				Required:   []string{"title", "description", "teamId"},
			},
		},
		{
			Name:        ToolLinearCreateIssues,
			Description: "Create several Linear issues in one batch",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"issues": map[string]interface{}{
						"type":        "array",
						"description": "The issues to create",
						"items": map[string]interface{}{
							"type":       "object",
							"properties": issueInputProperties(),
							"required":   []string{"title", "teamId"},
						},
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"issues"},
			},
		},
		{
			Name:        ToolLinearBulkUpdateIssues,
			Description: "Apply the same update to several Linear issues",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"issueIds": stringArrayProperty("The ids of the issues to update"),
					"update": map[string]interface{}{
						"type":        "object",
						"description": "The fields to set on every issue",
						"properties":  issueUpdateProperties(),
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"issueIds", "update"},
			},
		},
		{
			Name:        ToolLinearSearchIssues,
			Description: "Search Linear issues by text and filters, one page at a time",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": stringProperty("Free-text search term (ignored when filter.identifier is given)"),
					"filter": map[string]interface{}{
						"type":        "object",
						"description": "Structured filter",
						"properties": map[string]interface{}{
							"identifier": map[string]interface{}{
								"description": "Issue identifier or list of identifiers (e.g., ENG-123)",
								"oneOf": []interface{}{
									map[string]interface{}{"type": "string"},
									map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
								},
							},
							"projectId": stringProperty("Restrict to a project"),
						},
					},
					"projectId":   stringProperty("Restrict to a project"),
					"teamIds":     stringArrayProperty("Restrict to these teams"),
					"assigneeIds": stringArrayProperty("Restrict to these assignees"),
					"states":      stringArrayProperty("Restrict to these workflow state names"),
					"priority":    numberProperty("Restrict to this priority"),
					"first": map[string]interface{}{
						"type":        "integer",
						"description": "Page size (default 50)",
					},
					"after": stringProperty("Cursor returned as pageInfo.endCursor by a previous call"),
					"orderBy": map[string]interface{}{
						"type":        "string",
						"description": "Sort order (default updatedAt)",
						"enum":        []string{"createdAt", "updatedAt"},
					},
					"auth": getAuthSchema(),
				},
			},
		},
		{
			Name:        ToolLinearSearchIssuesByIdentifier,
			Description: "Fetch Linear issues by their identifiers (e.g., ENG-123)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"identifiers": stringArrayProperty("The issue identifiers"),
					"auth":        getAuthSchema(),
				},
				Required: []string{"identifiers"},
			},
		},
		{
			Name:        ToolLinearGetIssue,
			Description: "Retrieve a single Linear issue, including its comments",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"identifier": stringProperty("The issue identifier (e.g., ENG-123)"),
					"auth":       getAuthSchema(),
				},
				Required: []string{"identifier"},
			},
		},
		{
			Name:        ToolLinearDeleteIssue,
			Description: "Delete a Linear issue",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"id":   stringProperty("The id or identifier of the issue"),
					"auth": getAuthSchema(),
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        ToolLinearEditIssue,
			Description: "Update fields of an existing Linear issue",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: editProps,
				Required:   []string{"issueId"},
			},
		},
		{
			Name:        ToolLinearListTeams,
			Description: "List the Linear teams visible to the credentials",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"auth": getAuthSchema(),
				},
			},
		},
	}
}

// Handle processes an MCP tool call request for Linear operations.
func (h *IssueHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	var result interface{}
	var err error

	switch req.Name {
	case ToolLinearCreateIssue:
		result, err = h.handleCreateIssue(ctx, req.Arguments)
	case ToolLinearCreateIssues:
		result, err = h.handleCreateIssues(ctx, req.Arguments)
	case ToolLinearBulkUpdateIssues:
		result, err = h.handleBulkUpdateIssues(ctx, req.Arguments)
	case ToolLinearSearchIssues:
		result, err = h.handleSearchIssues(ctx, req.Arguments)
	case ToolLinearSearchIssuesByIdentifier:
		result, err = h.handleSearchIssuesByIdentifier(ctx, req.Arguments)
	case ToolLinearGetIssue:
		result, err = h.handleGetIssue(ctx, req.Arguments)
	case ToolLinearDeleteIssue:
		result, err = h.handleDeleteIssue(ctx, req.Arguments)
	case ToolLinearEditIssue:
		result, err = h.handleEditIssue(ctx, req.Arguments)
	case ToolLinearListTeams:
		result, err = h.handleListTeams(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown Linear tool: %s", req.Name),
		}
	}

	if err == nil {
		var resp *domain.ToolResponse
		resp, err = h.mapper.MapToToolResponse(result)
		if err == nil {
			return resp, nil
		}
	}

	err = domain.WrapOperation(req.Name, err)
	h.logger.LogError("tool call failed", err, map[string]interface{}{
		"tool": req.Name,
	})
	return h.mapper.MapFailure(err), nil
}

// getClientForRequest returns the client to use for one call: one built
// from the call's auth argument if present, otherwise the default client.
func (h *IssueHandler) getClientForRequest(args map[string]interface{}) (domain.IssueClient, error) {
	creds, err := domain.ExtractCredentialsFromArguments(args)
	if err != nil {
		return nil, &domain.AuthError{Reason: err.Error()}
	}

	if creds != nil {
		if h.authManager == nil {
			return nil, &domain.AuthError{Reason: "per-call credentials are not supported by this server"}
		}
		httpClient, err := h.authManager.GetAuthenticatedClientWithCredentials(creds)
		if err != nil {
			return nil, err
		}
		return infrastructure.NewLinearClient(h.endpoint, httpClient), nil
	}

	if h.client == nil {
		return nil, &domain.AuthError{Reason: "no credentials provided and no default credentials configured"}
	}

	return h.client, nil
}

// handleCreateIssue handles the linear_create_issue tool call.
func (h *IssueHandler) handleCreateIssue(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := h.getClientForRequest(args)
	if err != nil {
		return nil, err
	}

	if err := requireParams(args, "title", "description", "teamId"); err != nil {
		return nil, err
	}

	input, err := parseCreateInput(args, "")
	if err != nil {
		return nil, err
	}

	payload, err := client.CreateIssue(ctx, input)
	if err != nil {
		return nil, err
	}
	if payload == nil || !payload.Success {
		return nil, &domain.BackendError{Operation: "issueCreate", Reason: "mutation reported failure"}
	}
	if payload.Issue == nil {
		return nil, &domain.BackendError{Operation: "issueCreate", Reason: "response did not include the created issue"}
	}

	summary := domain.SummarizeIssue(payload.Issue)
	return &summary, nil
}

// parseCreateInput reads issue creation fields from args. prefix names
// the enclosing argument in error messages (e.g. "issues[2].").
func parseCreateInput(args map[string]interface{}, prefix string) (domain.IssueCreateInput, error) {
	var input domain.IssueCreateInput
	var err error

	stringFields := []struct {
		name string
		dst  *string
	}{
		{"title", &input.Title},
		{"description", &input.Description},
		{"teamId", &input.TeamID},
		{"assigneeId", &input.AssigneeID},
		{"stateId", &input.StateID},
		{"projectId", &input.ProjectID},
		{"parentId", &input.ParentID},
		{"dueDate", &input.DueDate},
	}
	for _, field := range stringFields {
		if *field.dst, err = getStringParam(args, field.name, false); err != nil {
			return input, prefixed(prefix, field.name, err)
		}
	}

	if labelIDs, ok, err := getStringSliceParam(args, "labelIds"); err != nil {
		return input, prefixed(prefix, "labelIds", err)
	} else if ok {
		input.LabelIDs = labelIDs
	}

	if priority, ok, err := getNumberParam(args, "priority"); err != nil {
		return input, prefixed(prefix, "priority", err)
	} else if ok {
		input.Priority = &priority
	}

	if estimate, ok, err := getNumberParam(args, "estimate"); err != nil {
		return input, prefixed(prefix, "estimate", err)
	} else if ok {
		input.Estimate = &estimate
	}

	return input, nil
}

func prefixed(prefix, field string, err error) error {
	if prefix == "" {
		return err
	}
	return domain.NewInvalidFieldError(prefix+field, "%s%s: %v", prefix, field, err)
}

// handleCreateIssues handles the linear_create_issues tool call.
func (h *IssueHandler) handleCreateIssues(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := h.getClientForRequest(args)
	if err != nil {
		return nil, err
	}

	if err := requireParams(args, "issues"); err != nil {
		return nil, err
	}
	items, _, err := getArrayParam(args, "issues")
	if err != nil {
		return nil, err
	}

	inputs := make([]domain.IssueCreateInput, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			field := fmt.Sprintf("issues[%d]", i)
			return nil, domain.NewInvalidFieldError(field, "parameter %s must be an object", field)
		}
		input, err := parseCreateInput(obj, fmt.Sprintf("issues[%d].", i))
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}

	payload, err := client.CreateIssues(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if payload == nil || !payload.Success {
		return nil, &domain.BackendError{Operation: "issueBatchCreate", Reason: "mutation reported failure"}
	}

	return &domain.CreateIssuesResult{
		Count:  len(payload.Issues),
		Issues: domain.SummarizeIssues(payload.Issues),
	}, nil
}

// handleBulkUpdateIssues handles the linear_bulk_update_issues tool call.
// The reported count is the number of ids submitted; Linear confirms the
// batch as a whole, not each issue.
func (h *IssueHandler) handleBulkUpdateIssues(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := h.getClientForRequest(args)
	if err != nil {
		return nil, err
	}

	if err := requireParams(args, "issueIds", "update"); err != nil {
		return nil, err
	}
	issueIDs, _, err := getStringSliceParam(args, "issueIds")
	if err != nil {
		return nil, err
	}
	update, _, err := getObjectParam(args, "update")
	if err != nil {
		return nil, err
	}

	patch, err := buildPatch(update)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, domain.NewInvalidFieldError("update", "update contains no updatable fields")
	}

	payload, err := client.UpdateIssues(ctx, issueIDs, patch)
	if err != nil {
		return nil, err
	}
	if payload == nil || !payload.Success {
		return nil, &domain.BackendError{Operation: "issueBatchUpdate", Reason: "mutation reported failure"}
	}

	return &domain.BulkUpdateResult{
		Updated:  len(issueIDs),
		IssueIDs: issueIDs,
		Verified: false,
	}, nil
}

// handleSearchIssues handles the linear_search_issues tool call.
func (h *IssueHandler) handleSearchIssues(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := h.getClientForRequest(args)
	if err != nil {
		return nil, err
	}

	search, err := buildSearch(args)
	if err != nil {
		return nil, err
	}

	conn, err := client.SearchIssues(ctx, search)
	if err != nil {
		return nil, err
	}
	return searchResult(conn), nil
}

// buildSearch turns search arguments into an IssueSearch. An identifier
// filter takes precedence over the free-text query; all other
// constraints are independent.
func buildSearch(args map[string]interface{}) (domain.IssueSearch, error) {
	search := domain.IssueSearch{
		First:   defaultSearchPageSize,
		OrderBy: defaultSearchOrderBy,
	}
	builder := domain.NewIssueFilterBuilder()

	filterArg, _, err := getObjectParam(args, "filter")
	if err != nil {
		return search, err
	}

	identifiers, hasIdentifier, err := identifierParam(filterArg)
	if err != nil {
		return search, err
	}
	if hasIdentifier {
		builder.IdentifierIn(identifiers)
	} else if hasParam(args, "query") {
		query, err := getStringParam(args, "query", false)
		if err != nil {
			return search, err
		}
		search.Term = query
	}

	projectSource := args
	if hasParam(filterArg, "projectId") {
		projectSource = filterArg
	}
	if hasParam(projectSource, "projectId") {
		projectID, err := getStringParam(projectSource, "projectId", false)
		if err != nil {
			return search, err
		}
		builder.ProjectID(projectID)
	}

	if teamIDs, ok, err := getStringSliceParam(args, "teamIds"); err != nil {
		return search, err
	} else if ok {
		builder.TeamIDs(teamIDs)
	}

	if assigneeIDs, ok, err := getStringSliceParam(args, "assigneeIds"); err != nil {
		return search, err
	} else if ok {
		builder.AssigneeIDs(assigneeIDs)
	}

	if states, ok, err := getStringSliceParam(args, "states"); err != nil {
		return search, err
	} else if ok {
		builder.StateNames(states)
	}

	if priority, ok, err := getNumberParam(args, "priority"); err != nil {
		return search, err
	} else if ok {
		builder.Priority(priority)
	}

	if hasParam(args, "first") {
		first, err := getIntParam(args, "first", false)
		if err != nil {
			return search, err
		}
		if first <= 0 {
			return search, domain.NewInvalidFieldError("first", "parameter first must be a positive integer")
		}
		search.First = first
	}

	if search.After, err = getStringParam(args, "after", false); err != nil {
		return search, err
	}

	if hasParam(args, "orderBy") {
		orderBy, err := getStringParam(args, "orderBy", false)
		if err != nil {
			return search, err
		}
		if orderBy != "createdAt" && orderBy != "updatedAt" {
			return search, domain.NewInvalidFieldError("orderBy", "parameter orderBy must be 'createdAt' or 'updatedAt'")
		}
		search.OrderBy = orderBy
	}

	search.Filter = builder.Build()
	return search, nil
}

// identifierParam reads filter.identifier, which may be a single
// identifier or a list of them.
func identifierParam(filter map[string]interface{}) ([]string, bool, error) {
	if !hasParam(filter, "identifier") {
		return nil, false, nil
	}
	if single, ok := filter["identifier"].(string); ok {
		return []string{single}, true, nil
	}
	list, _, err := getStringSliceParam(filter, "identifier")
	if err != nil {
		return nil, true, domain.NewInvalidFieldError("filter.identifier", "parameter filter.identifier must be a string or an array of strings")
	}
	return list, true, nil
}

func searchResult(conn *domain.IssueConnection) *domain.SearchResult {
	if conn == nil {
		return &domain.SearchResult{Issues: []domain.IssueSummary{}}
	}
	return &domain.SearchResult{
		Issues:   domain.SummarizeIssues(conn.Nodes),
		PageInfo: conn.PageInfo,
	}
}

// handleSearchIssuesByIdentifier handles the
// linear_search_issues_by_identifier tool call.
func (h *IssueHandler) handleSearchIssuesByIdentifier(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := h.getClientForRequest(args)
	if err != nil {
		return nil, err
	}

	if err := requireParams(args, "identifiers"); err != nil {
		return nil, err
	}
	identifiers, _, err := getStringSliceParam(args, "identifiers")
	if err != nil {
		return nil, err
	}

	conn, err := client.SearchIssues(ctx, domain.IssueSearch{
		Filter: domain.NewIssueFilterBuilder().IdentifierIn(identifiers).Build(),
		First:  identifierSearchPageSize,
	})
	if err != nil {
		return nil, err
	}
	return searchResult(conn), nil
}

// handleGetIssue handles the linear_get_issue tool call.
func (h *IssueHandler) handleGetIssue(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := h.getClientForRequest(args)
	if err != nil {
		return nil, err
	}

	identifier, err := getStringParam(args, "identifier", true)
	if err != nil {
		return nil, err
	}

	conn, err := client.SearchIssues(ctx, domain.IssueSearch{
		Filter:          domain.NewIssueFilterBuilder().IdentifierIn([]string{identifier}).Build(),
		First:           1,
		IncludeComments: true,
	})
	if err != nil {
		return nil, err
	}
	if conn == nil || len(conn.Nodes) == 0 {
		return nil, &domain.NotFoundError{Identifier: identifier}
	}

	summary := domain.SummarizeIssue(&conn.Nodes[0])
	return &summary, nil
}

// handleDeleteIssue handles the linear_delete_issue tool call.
func (h *IssueHandler) handleDeleteIssue(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := h.getClientForRequest(args)
	if err != nil {
		return nil, err
	}

	id, err := getStringParam(args, "id", true)
	if err != nil {
		return nil, err
	}

	payload, err := client.DeleteIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload == nil || !payload.Success {
		return nil, &domain.BackendError{Operation: "issueDelete", Reason: "mutation reported failure"}
	}

	return fmt.Sprintf("Issue %s deleted", id), nil
}

// handleEditIssue handles the linear_edit_issue tool call.
func (h *IssueHandler) handleEditIssue(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := h.getClientForRequest(args)
	if err != nil {
		return nil, err
	}

	issueID, err := getStringParam(args, "issueId", true)
	if err != nil {
		return nil, err
	}

	patch, err := buildPatch(args)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, &domain.ValidationError{
			Fields:  []string{"issueId"},
			Message: fmt.Sprintf("no updatable fields provided for issue %s", issueID),
		}
	}

	payload, err := client.UpdateIssue(ctx, issueID, patch)
	if err != nil {
		return nil, err
	}
	if payload == nil || !payload.Success {
		return nil, &domain.BackendError{Operation: "issueUpdate", Reason: "mutation reported failure"}
	}
	if payload.Issue == nil {
		return nil, &domain.BackendError{Operation: "issueUpdate", Reason: "response did not include the updated issue"}
	}

	return &domain.EditedIssue{
		ID:         payload.Issue.ID,
		Identifier: payload.Issue.Identifier,
		Title:      payload.Issue.Title,
		URL:        payload.Issue.URL,
		UpdatedAt:  payload.Issue.UpdatedAt,
	}, nil
}

// handleListTeams handles the linear_list_teams tool call.
func (h *IssueHandler) handleListTeams(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	client, err := h.getClientForRequest(args)
	if err != nil {
		return nil, err
	}

	teams, err := client.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	return &domain.TeamList{Teams: teams}, nil
}
