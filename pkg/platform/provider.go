package platform

import (
	"context"

	"github.com/sgaunet/release-toolbox/pkg/metadata"
)

// Provider defines the unified interface for GitLab and GitHub operations.
type Provider interface {
	// Initialize sets up the client from a git remote URL.
	Initialize(ctx context.Context, remoteURL string) error

	// Fetch returns the normalized metadata of an issue or pull/merge request.
	// Unknown ids yield metadata.ErrUnresolvable.
	Fetch(ctx context.Context, id int) (metadata.IssueMetadata, error)

	// RelatedIssues returns the issues and pull/merge requests referencing id.
	RelatedIssues(ctx context.Context, id int) ([]metadata.Reference, error)

	// Search returns the pull/merge requests matching the query.
	Search(ctx context.Context, query SearchQuery) ([]metadata.Reference, error)

	// Create opens an issue, or a pull/merge request when head and base are set.
	Create(ctx context.Context, params CreateParams) (*Created, error)

	// PlatformName returns "GitLab" or "GitHub".
	PlatformName() string

	// RepositoryURL returns the browsable URL of the repository.
	RepositoryURL() string
}
