package domain

// IssueSummary is the flattened issue shape returned by the issue tools.
type IssueSummary struct {
	ID          string     `json:"id"`
	Identifier  string     `json:"identifier"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	State       string     `json:"state,omitempty"`
	Priority    *float64   `json:"priority,omitempty"`
	Estimate    *float64   `json:"estimate,omitempty"`
	SortOrder   *float64   `json:"sortOrder,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	Assignee    *User      `json:"assignee,omitempty"`
	Project     *Project   `json:"project,omitempty"`
	Team        *Team      `json:"team,omitempty"`
	Labels      []Label    `json:"labels,omitempty"`
	Parent      *IssueRef  `json:"parent,omitempty"`
	Children    []IssueRef `json:"children,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty"`
	UpdatedAt   string     `json:"updatedAt,omitempty"`
}

// SummarizeIssue flattens the GraphQL connections of an issue.
func SummarizeIssue(issue *Issue) IssueSummary {
	summary := IssueSummary{
		ID:          issue.ID,
		Identifier:  issue.Identifier,
		Title:       issue.Title,
		Description: issue.Description,
		URL:         issue.URL,
		Priority:    issue.Priority,
		Estimate:    issue.Estimate,
		SortOrder:   issue.SortOrder,
		DueDate:     issue.DueDate,
		Assignee:    issue.Assignee,
		Project:     issue.Project,
		Team:        issue.Team,
		Parent:      issue.Parent,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
	if issue.State != nil {
		summary.State = issue.State.Name
	}
	if issue.Labels != nil {
		summary.Labels = issue.Labels.Nodes
	}
	if issue.Children != nil {
		summary.Children = issue.Children.Nodes
	}
	if issue.Comments != nil {
		summary.Comments = issue.Comments.Nodes
	}
	return summary
}

// SummarizeIssues flattens a list of issues. The result is never nil.
func SummarizeIssues(issues []Issue) []IssueSummary {
	out := make([]IssueSummary, 0, len(issues))
	for i := range issues {
		out = append(out, SummarizeIssue(&issues[i]))
	}
	return out
}

// EditedIssue is the short confirmation returned after an edit.
type EditedIssue struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	UpdatedAt  string `json:"updatedAt"`
}

// CreateIssuesResult is returned by the batch create tool.
type CreateIssuesResult struct {
	Count  int            `json:"count"`
	Issues []IssueSummary `json:"issues"`
}

// BulkUpdateResult is returned by the bulk update tool. Updated is the
// number of ids submitted; Linear acknowledges the batch as a whole, so
// Verified is always false.
type BulkUpdateResult struct {
	Updated  int      `json:"updated"`
	IssueIDs []string `json:"issueIds"`
	Verified bool     `json:"verified"`
}

// SearchResult is one page of search results.
type SearchResult struct {
	Issues   []IssueSummary `json:"issues"`
	PageInfo PageInfo       `json:"pageInfo"`
}

// TeamList is returned by the team listing tool.
type TeamList struct {
	Teams []Team `json:"teams"`
}
