package github

import (
	"context"
)

// APIClient defines the interface for GitHub API operations.
// This interface enables dependency injection and facilitates black box testing
// by allowing mock implementations to replace the actual GitHub API client.
type APIClient interface {
	// SetRepositoryFromURL configures the repository from a git remote URL.
	// Supports both HTTPS and SSH formats.
	SetRepositoryFromURL(ctx context.Context, remoteURL string) error

	// GetIssue returns an issue or pull request by number.
	// Returns ErrIssueNotFound if the number does not exist.
	GetIssue(ctx context.Context, number int) (*IssueSummary, error)

	// ListCrossReferences returns the issues and pull requests mentioning number.
	ListCrossReferences(ctx context.Context, number int) ([]*IssueSummary, error)

	// SearchIssues runs a repository scoped issue search.
	SearchIssues(ctx context.Context, query string) ([]*IssueSummary, error)

	// CreateIssue opens an issue with the given labels and assignees.
	CreateIssue(ctx context.Context, title, body string, labels, assignees []string) (*IssueSummary, error)

	// CreatePullRequest opens a pull request from head into base.
	CreatePullRequest(
		ctx context.Context,
		head, base, title, body string,
		assignees, labels []string,
	) (*IssueSummary, error)

	// Owner returns the repository owner.
	Owner() string

	// Repo returns the repository name.
	Repo() string
}

// Ensure Client implements APIClient interface at compile time.
var _ APIClient = (*Client)(nil)
