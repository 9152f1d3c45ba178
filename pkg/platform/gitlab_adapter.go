package platform

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/release-toolbox/internal/urlutil"
	"github.com/sgaunet/release-toolbox/pkg/gitlab"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
)

const (
	gitlabStateOpened = "opened"
	gitlabStateAll    = "all"
	backportSearch    = "Backport"
)

// GitLabAdapter wraps a GitLab client to implement the [Provider] interface.
// Merge request IIDs take precedence over issue IIDs when fetching by id.
type GitLabAdapter struct {
	client gitlab.APIClient
	log    *bullets.Logger
	webURL string
}

// NewGitLabAdapter creates a new GitLab adapter.
func NewGitLabAdapter(client gitlab.APIClient, log *bullets.Logger) *GitLabAdapter {
	return &GitLabAdapter{
		client: client,
		log:    log,
	}
}

// Initialize sets up the GitLab project from a remote URL.
func (a *GitLabAdapter) Initialize(ctx context.Context, remoteURL string) error {
	if err := a.client.SetProjectFromURL(ctx, remoteURL); err != nil {
		return fmt.Errorf("failed to set GitLab project: %w", err)
	}
	a.webURL = urlutil.WebURL(remoteURL)
	return nil
}

// Fetch returns the normalized metadata of a merge request, falling back to an
// issue with the same IID.
func (a *GitLabAdapter) Fetch(ctx context.Context, id int) (metadata.IssueMetadata, error) {
	summary, err := a.client.GetMergeRequest(ctx, id)
	if errors.Is(err, gitlab.ErrNotFound) {
		a.log.Debug(fmt.Sprintf("No merge request !%d, trying issue #%d", id, id))
		summary, err = a.client.GetIssue(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gitlab.ErrNotFound) {
			return metadata.IssueMetadata{}, fmt.Errorf("%w: %w", metadata.ErrUnresolvable, err)
		}
		return metadata.IssueMetadata{}, fmt.Errorf("failed to fetch GitLab metadata: %w", err)
	}

	return metadata.Normalize(metadata.Raw{
		ID:            summary.IID,
		Title:         summary.Title,
		State:         normalizeGitLabState(summary.State),
		IsPullRequest: summary.IsMergeRequest,
		MergedAt:      summary.MergedAt,
		Labels:        summary.Labels,
	}), nil
}

// RelatedIssues returns the backport merge requests whose description
// references merge request id.
func (a *GitLabAdapter) RelatedIssues(ctx context.Context, id int) ([]metadata.Reference, error) {
	mrs, err := a.client.ListMergeRequests(ctx, gitlab.MergeRequestQuery{
		Search: backportSearch,
		State:  gitlabStateAll,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list related merge requests: %w", err)
	}

	mention := regexp.MustCompile(fmt.Sprintf(`[!#]%d\b`, id))
	refs := make([]metadata.Reference, 0, len(mrs))
	for _, mr := range mrs {
		if !mention.MatchString(mr.Description) {
			continue
		}
		refs = append(refs, gitlabReference(mr))
	}
	return refs, nil
}

// Search lists merge requests matching query.
func (a *GitLabAdapter) Search(ctx context.Context, query SearchQuery) ([]metadata.Reference, error) {
	q := gitlab.MergeRequestQuery{
		State:          gitlabStateAll,
		Search:         query.Title,
		AuthorUsername: query.Author,
		Labels:         query.Labels,
		UpdatedAfter:   query.MergedSince,
	}
	switch query.State {
	case metadata.StateOpen:
		q.State = gitlabStateOpened
	case metadata.StateClosed, metadata.StateMerged:
		q.State = query.State
	}

	mrs, err := a.client.ListMergeRequests(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search merge requests: %w", err)
	}

	refs := make([]metadata.Reference, 0, len(mrs))
	for _, mr := range mrs {
		if query.MergedSince != nil && (mr.MergedAt == nil || mr.MergedAt.Before(*query.MergedSince)) {
			continue
		}
		refs = append(refs, gitlabReference(mr))
	}
	return refs, nil
}

// Create opens an issue or a merge request on GitLab.
func (a *GitLabAdapter) Create(ctx context.Context, params CreateParams) (*Created, error) {
	if (params.Head == "") != (params.Base == "") {
		return nil, ErrIncompleteCreateParams
	}

	if params.IsPullRequest() {
		mr, err := a.client.CreateMergeRequest(ctx,
			params.Head, params.Base, params.Title, params.Body,
			params.Assignees, params.Labels)
		if err != nil {
			return nil, fmt.Errorf("failed to create merge request: %w", err)
		}
		return &Created{ID: mr.IID, WebURL: mr.WebURL, PullRequest: true}, nil
	}

	issue, err := a.client.CreateIssue(ctx, params.Title, params.Body, params.Labels, params.Assignees)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return &Created{ID: issue.IID, WebURL: issue.WebURL}, nil
}

// PlatformName returns "GitLab".
func (a *GitLabAdapter) PlatformName() string {
	return "GitLab"
}

// RepositoryURL returns the project URL derived from the remote, or the
// gitlab.com URL of the project path.
func (a *GitLabAdapter) RepositoryURL() string {
	if a.webURL != "" {
		return a.webURL
	}
	return "https://gitlab.com/" + a.client.ProjectPath()
}

// normalizeGitLabState maps GitLab's "opened" to "open".
func normalizeGitLabState(state string) string {
	if state == gitlabStateOpened {
		return metadata.StateOpen
	}
	return state
}

func gitlabReference(mr *gitlab.IssueSummary) metadata.Reference {
	state := normalizeGitLabState(mr.State)
	if mr.Merged() {
		state = metadata.StateMerged
	}
	return metadata.Reference{ID: mr.IID, Title: mr.Title, State: state}
}
