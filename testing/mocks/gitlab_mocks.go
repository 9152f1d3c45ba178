package mocks

import (
	"context"
	"fmt"

	"github.com/sgaunet/release-toolbox/pkg/gitlab"
)

// GitLabAPIClient is a mock implementation of gitlab.APIClient with call tracking.
// IIDs missing from the MergeRequests and Issues maps resolve to gitlab.ErrNotFound.
type GitLabAPIClient struct {
	recorder

	ProjectPathValue string

	SetProjectError     error
	MergeRequests       map[int]*gitlab.IssueSummary
	Issues              map[int]*gitlab.IssueSummary
	GetError            error
	ListResponse        []*gitlab.IssueSummary
	ListError           error
	CreateIssueResponse *gitlab.IssueSummary
	CreateIssueError    error
	CreateMRResponse    *gitlab.IssueSummary
	CreateMRError       error
}

// NewGitLabAPIClient creates a new mock GitLab API client for group/project.
func NewGitLabAPIClient() *GitLabAPIClient {
	return &GitLabAPIClient{
		ProjectPathValue: "group/project",
		MergeRequests:    make(map[int]*gitlab.IssueSummary),
		Issues:           make(map[int]*gitlab.IssueSummary),
	}
}

// SetProjectFromURL implements gitlab.APIClient.
func (m *GitLabAPIClient) SetProjectFromURL(_ context.Context, remoteURL string) error {
	m.trackCall("SetProjectFromURL", map[string]any{"remoteURL": remoteURL})
	return m.SetProjectError
}

// GetMergeRequest implements gitlab.APIClient.
func (m *GitLabAPIClient) GetMergeRequest(_ context.Context, iid int) (*gitlab.IssueSummary, error) {
	m.trackCall("GetMergeRequest", map[string]any{"iid": iid})
	if m.GetError != nil {
		return nil, m.GetError
	}
	if mr, ok := m.MergeRequests[iid]; ok {
		return mr, nil
	}
	return nil, fmt.Errorf("%w: !%d", gitlab.ErrNotFound, iid)
}

// GetIssue implements gitlab.APIClient.
func (m *GitLabAPIClient) GetIssue(_ context.Context, iid int) (*gitlab.IssueSummary, error) {
	m.trackCall("GetIssue", map[string]any{"iid": iid})
	if m.GetError != nil {
		return nil, m.GetError
	}
	if issue, ok := m.Issues[iid]; ok {
		return issue, nil
	}
	return nil, fmt.Errorf("%w: #%d", gitlab.ErrNotFound, iid)
}

// ListMergeRequests implements gitlab.APIClient.
func (m *GitLabAPIClient) ListMergeRequests(
	_ context.Context,
	query gitlab.MergeRequestQuery,
) ([]*gitlab.IssueSummary, error) {
	m.trackCall("ListMergeRequests", map[string]any{"query": query})
	return m.ListResponse, m.ListError
}

// CreateIssue implements gitlab.APIClient.
func (m *GitLabAPIClient) CreateIssue(
	_ context.Context,
	title, description string,
	labels, assignees []string,
) (*gitlab.IssueSummary, error) {
	m.trackCall("CreateIssue", map[string]any{
		"title":       title,
		"description": description,
		"labels":      labels,
		"assignees":   assignees,
	})
	return m.CreateIssueResponse, m.CreateIssueError
}

// CreateMergeRequest implements gitlab.APIClient.
func (m *GitLabAPIClient) CreateMergeRequest(
	_ context.Context,
	sourceBranch, targetBranch, title, description string,
	assignees, labels []string,
) (*gitlab.IssueSummary, error) {
	m.trackCall("CreateMergeRequest", map[string]any{
		"sourceBranch": sourceBranch,
		"targetBranch": targetBranch,
		"title":        title,
		"description":  description,
		"assignees":    assignees,
		"labels":       labels,
	})
	return m.CreateMRResponse, m.CreateMRError
}

// ProjectPath implements gitlab.APIClient.
func (m *GitLabAPIClient) ProjectPath() string { return m.ProjectPathValue }

// Ensure GitLabAPIClient implements gitlab.APIClient interface.
var _ gitlab.APIClient = (*GitLabAPIClient)(nil)
