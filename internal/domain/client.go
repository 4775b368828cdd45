package domain

import (
	"context"
)

// IssueClient is the narrow view of the Linear GraphQL API that the issue
// tools depend on. Implementations report transport and GraphQL-level
// failures as errors; a mutation that ran but did not succeed is reported
// through the payload's Success flag.
type IssueClient interface {
	// CreateIssue runs issueCreate.
	CreateIssue(ctx context.Context, input IssueCreateInput) (*IssueCreatePayload, error)

	// CreateIssues runs issueBatchCreate.
	CreateIssues(ctx context.Context, inputs []IssueCreateInput) (*IssueBatchCreatePayload, error)

	// UpdateIssues applies one patch to many issues.
	UpdateIssues(ctx context.Context, ids []string, patch IssuePatch) (*IssueUpdatePayload, error)

	// UpdateIssue applies a patch to a single issue.
	UpdateIssue(ctx context.Context, id string, patch IssuePatch) (*IssueUpdatePayload, error)

	// SearchIssues returns one page of issues.
	SearchIssues(ctx context.Context, search IssueSearch) (*IssueConnection, error)

	// DeleteIssue runs issueDelete.
	DeleteIssue(ctx context.Context, id string) (*IssueDeletePayload, error)

	// ListTeams returns the teams visible to the caller.
	ListTeams(ctx context.Context) ([]Team, error)
}
