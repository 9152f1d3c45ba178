package gitlab

import "context"

// APIClient defines the interface for GitLab API operations.
// This interface enables dependency injection and facilitates black box testing
// by allowing mock implementations to replace the actual GitLab API client.
type APIClient interface {
	// SetProjectFromURL configures the project from a git remote URL.
	// Supports both HTTPS and SSH formats.
	SetProjectFromURL(ctx context.Context, remoteURL string) error

	// GetMergeRequest returns a merge request by IID.
	// Returns ErrNotFound if it does not exist.
	GetMergeRequest(ctx context.Context, iid int) (*IssueSummary, error)

	// GetIssue returns an issue by IID.
	// Returns ErrNotFound if it does not exist.
	GetIssue(ctx context.Context, iid int) (*IssueSummary, error)

	// ListMergeRequests lists merge requests matching the query.
	ListMergeRequests(ctx context.Context, query MergeRequestQuery) ([]*IssueSummary, error)

	// CreateIssue opens an issue assigned to the given usernames.
	CreateIssue(ctx context.Context, title, description string, labels, assignees []string) (*IssueSummary, error)

	// CreateMergeRequest opens a merge request from sourceBranch into targetBranch.
	CreateMergeRequest(
		ctx context.Context,
		sourceBranch, targetBranch, title, description string,
		assignees, labels []string,
	) (*IssueSummary, error)

	// ProjectPath returns the namespace/project path.
	ProjectPath() string
}

// Ensure Client implements APIClient interface at compile time.
var _ APIClient = (*Client)(nil)
