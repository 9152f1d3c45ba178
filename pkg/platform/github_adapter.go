package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sgaunet/bullets"
	ghclient "github.com/sgaunet/release-toolbox/pkg/github"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
)

const searchDateLayout = "2006-01-02"

// GitHubAdapter wraps a GitHub client to implement the [Provider] interface.
// It translates between the platform-agnostic types and the GitHub-specific API.
type GitHubAdapter struct {
	client ghclient.APIClient
	log    *bullets.Logger
}

// NewGitHubAdapter creates a new GitHub adapter.
func NewGitHubAdapter(client ghclient.APIClient, log *bullets.Logger) *GitHubAdapter {
	return &GitHubAdapter{
		client: client,
		log:    log,
	}
}

// Initialize sets up the GitHub repository from a remote URL.
func (a *GitHubAdapter) Initialize(ctx context.Context, remoteURL string) error {
	if err := a.client.SetRepositoryFromURL(ctx, remoteURL); err != nil {
		return fmt.Errorf("failed to set GitHub repository: %w", err)
	}
	return nil
}

// Fetch returns the normalized metadata of an issue or pull request.
func (a *GitHubAdapter) Fetch(ctx context.Context, id int) (metadata.IssueMetadata, error) {
	issue, err := a.client.GetIssue(ctx, id)
	if err != nil {
		if errors.Is(err, ghclient.ErrIssueNotFound) {
			return metadata.IssueMetadata{}, fmt.Errorf("%w: %w", metadata.ErrUnresolvable, err)
		}
		return metadata.IssueMetadata{}, fmt.Errorf("failed to fetch GitHub issue: %w", err)
	}

	return metadata.Normalize(metadata.Raw{
		ID:            issue.Number,
		Title:         issue.Title,
		State:         issue.State,
		IsPullRequest: issue.IsPullRequest,
		MergedAt:      issue.MergedAt,
		Labels:        issue.Labels,
	}), nil
}

// RelatedIssues returns the issues and pull requests cross-referencing id.
func (a *GitHubAdapter) RelatedIssues(ctx context.Context, id int) ([]metadata.Reference, error) {
	refs, err := a.client.ListCrossReferences(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list related issues: %w", err)
	}
	return githubReferences(refs), nil
}

// Search runs a pull request search built from query.
func (a *GitHubAdapter) Search(ctx context.Context, query SearchQuery) ([]metadata.Reference, error) {
	q := buildGitHubQuery(query)
	a.log.Debug("GitHub search: " + q)

	found, err := a.client.SearchIssues(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search pull requests: %w", err)
	}
	return githubReferences(found), nil
}

// Create opens an issue or a pull request on GitHub.
func (a *GitHubAdapter) Create(ctx context.Context, params CreateParams) (*Created, error) {
	if (params.Head == "") != (params.Base == "") {
		return nil, ErrIncompleteCreateParams
	}

	if params.IsPullRequest() {
		pr, err := a.client.CreatePullRequest(ctx,
			params.Head, params.Base, params.Title, params.Body,
			params.Assignees, params.Labels)
		if err != nil {
			return nil, fmt.Errorf("failed to create pull request: %w", err)
		}
		return &Created{ID: pr.Number, WebURL: pr.HTMLURL, PullRequest: true}, nil
	}

	issue, err := a.client.CreateIssue(ctx, params.Title, params.Body, params.Labels, params.Assignees)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return &Created{ID: issue.Number, WebURL: issue.HTMLURL}, nil
}

// PlatformName returns "GitHub".
func (a *GitHubAdapter) PlatformName() string {
	return "GitHub"
}

// RepositoryURL returns https://github.com/<owner>/<repo>.
func (a *GitHubAdapter) RepositoryURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", a.client.Owner(), a.client.Repo())
}

// buildGitHubQuery translates a SearchQuery into GitHub search syntax.
func buildGitHubQuery(query SearchQuery) string {
	terms := []string{"is:pr"}
	switch query.State {
	case metadata.StateOpen:
		terms = append(terms, "is:open")
	case metadata.StateClosed:
		terms = append(terms, "is:closed")
	case metadata.StateMerged:
		terms = append(terms, "is:merged")
	}
	if query.Title != "" {
		terms = append(terms, fmt.Sprintf("in:title %q", query.Title))
	}
	if query.Author != "" {
		terms = append(terms, "author:"+query.Author)
	}
	for _, label := range query.Labels {
		terms = append(terms, fmt.Sprintf("label:%q", label))
	}
	if query.MergedSince != nil {
		terms = append(terms, "merged:>="+query.MergedSince.Format(searchDateLayout))
	}
	return strings.Join(terms, " ")
}

func githubReferences(issues []*ghclient.IssueSummary) []metadata.Reference {
	refs := make([]metadata.Reference, 0, len(issues))
	for _, issue := range issues {
		refs = append(refs, metadata.Reference{
			ID:    issue.Number,
			Title: issue.Title,
			State: issue.EffectiveState(),
		})
	}
	return refs
}
