package domain

// Issue is a Linear issue as returned by the GraphQL API. Optional
// relations are pointers so that a field the query did not select stays
// nil instead of decoding to a zero value.
type Issue struct {
	ID          string              `json:"id"`
	Identifier  string              `json:"identifier"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url"`
	Priority    *float64            `json:"priority,omitempty"`
	Estimate    *float64            `json:"estimate,omitempty"`
	SortOrder   *float64            `json:"sortOrder,omitempty"`
	DueDate     string              `json:"dueDate,omitempty"`
	CreatedAt   string              `json:"createdAt,omitempty"`
	UpdatedAt   string              `json:"updatedAt,omitempty"`
	State       *WorkflowState      `json:"state,omitempty"`
	Assignee    *User               `json:"assignee,omitempty"`
	Project     *Project            `json:"project,omitempty"`
	Team        *Team               `json:"team,omitempty"`
	Labels      *LabelConnection    `json:"labels,omitempty"`
	Parent      *IssueRef           `json:"parent,omitempty"`
	Children    *IssueRefConnection `json:"children,omitempty"`
	Comments    *CommentConnection  `json:"comments,omitempty"`
}

// IssueRef is the identifier+title back-reference used for parents and
// children.
type IssueRef struct {
	ID         string `json:"id,omitempty"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

// IssueRefConnection wraps a list of issue references.
type IssueRefConnection struct {
	Nodes []IssueRef `json:"nodes"`
}

// WorkflowState represents a Linear workflow state (e.g. Todo, In Progress).
type WorkflowState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// User represents a Linear user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Project represents a Linear project.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team represents a Linear team.
type Team struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Label represents an issue label.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LabelConnection wraps a list of labels.
type LabelConnection struct {
	Nodes []Label `json:"nodes"`
}

// Comment is one entry of an issue's discussion thread.
type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt,omitempty"`
	User      *User  `json:"user,omitempty"`
}

// CommentConnection wraps a list of comments.
type CommentConnection struct {
	Nodes []Comment `json:"nodes"`
}

// PageInfo carries the cursor for the next page of a connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor,omitempty"`
}

// IssueConnection is a page of issues.
type IssueConnection struct {
	Nodes    []Issue  `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

// IssueCreateInput is the input of the issueCreate mutation.
type IssueCreateInput struct {
	TeamID      string   `json:"teamId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    *float64 `json:"priority,omitempty"`
	Estimate    *float64 `json:"estimate,omitempty"`
	AssigneeID  string   `json:"assigneeId,omitempty"`
	StateID     string   `json:"stateId,omitempty"`
	ProjectID   string   `json:"projectId,omitempty"`
	ParentID    string   `json:"parentId,omitempty"`
	LabelIDs    []string `json:"labelIds,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
}

// IssuePatch is a partial issue update keyed by Linear input field name.
// Only keys present in the map are transmitted.
type IssuePatch map[string]interface{}

// IssueCreatePayload is the result of issueCreate.
type IssueCreatePayload struct {
	Success bool   `json:"success"`
	Issue   *Issue `json:"issue"`
}

// IssueBatchCreatePayload is the result of issueBatchCreate.
type IssueBatchCreatePayload struct {
	Success bool    `json:"success"`
	Issues  []Issue `json:"issues"`
}

// IssueUpdatePayload is the result of issueUpdate and issueBatchUpdate.
// For batch updates Issue is nil; Success covers the whole request.
type IssueUpdatePayload struct {
	Success bool   `json:"success"`
	Issue   *Issue `json:"issue"`
}

// IssueDeletePayload is the result of issueDelete.
type IssueDeletePayload struct {
	Success bool `json:"success"`
}

// IssueSearch describes one paginated issue lookup.
// When Term is set the backend's full-text search is used and Filter
// narrows its results; otherwise Filter alone selects issues.
type IssueSearch struct {
	Filter          *IssueFilter
	Term            string
	First           int
	After           string
	OrderBy         string
	IncludeComments bool
}
