package mocks

import (
	"context"
	"fmt"

	ghclient "github.com/sgaunet/release-toolbox/pkg/github"
)

// GitHubAPIClient is a mock implementation of github.APIClient with call tracking.
// Issues missing from the Issues map resolve to github.ErrIssueNotFound.
type GitHubAPIClient struct {
	recorder

	OwnerValue string
	RepoValue  string

	SetRepositoryError   error
	Issues               map[int]*ghclient.IssueSummary
	GetIssueErrors       map[int]error
	CrossReferences      map[int][]*ghclient.IssueSummary
	CrossReferencesError error
	SearchResponse       []*ghclient.IssueSummary
	SearchError          error
	CreateIssueResponse  *ghclient.IssueSummary
	CreateIssueError     error
	CreatePullResponse   *ghclient.IssueSummary
	CreatePullError      error
}

// NewGitHubAPIClient creates a new mock GitHub API client for decidim/decidim.
func NewGitHubAPIClient() *GitHubAPIClient {
	return &GitHubAPIClient{
		OwnerValue:      "decidim",
		RepoValue:       "decidim",
		Issues:          make(map[int]*ghclient.IssueSummary),
		GetIssueErrors:  make(map[int]error),
		CrossReferences: make(map[int][]*ghclient.IssueSummary),
	}
}

// SetRepositoryFromURL implements github.APIClient.
func (m *GitHubAPIClient) SetRepositoryFromURL(_ context.Context, remoteURL string) error {
	m.trackCall("SetRepositoryFromURL", map[string]any{"remoteURL": remoteURL})
	return m.SetRepositoryError
}

// GetIssue implements github.APIClient.
func (m *GitHubAPIClient) GetIssue(_ context.Context, number int) (*ghclient.IssueSummary, error) {
	m.trackCall("GetIssue", map[string]any{"number": number})
	if err, ok := m.GetIssueErrors[number]; ok {
		return nil, err
	}
	if issue, ok := m.Issues[number]; ok {
		return issue, nil
	}
	return nil, fmt.Errorf("%w: #%d", ghclient.ErrIssueNotFound, number)
}

// ListCrossReferences implements github.APIClient.
func (m *GitHubAPIClient) ListCrossReferences(_ context.Context, number int) ([]*ghclient.IssueSummary, error) {
	m.trackCall("ListCrossReferences", map[string]any{"number": number})
	return m.CrossReferences[number], m.CrossReferencesError
}

// SearchIssues implements github.APIClient.
func (m *GitHubAPIClient) SearchIssues(_ context.Context, query string) ([]*ghclient.IssueSummary, error) {
	m.trackCall("SearchIssues", map[string]any{"query": query})
	return m.SearchResponse, m.SearchError
}

// CreateIssue implements github.APIClient.
func (m *GitHubAPIClient) CreateIssue(
	_ context.Context,
	title, body string,
	labels, assignees []string,
) (*ghclient.IssueSummary, error) {
	m.trackCall("CreateIssue", map[string]any{
		"title":     title,
		"body":      body,
		"labels":    labels,
		"assignees": assignees,
	})
	return m.CreateIssueResponse, m.CreateIssueError
}

// CreatePullRequest implements github.APIClient.
func (m *GitHubAPIClient) CreatePullRequest(
	_ context.Context,
	head, base, title, body string,
	assignees, labels []string,
) (*ghclient.IssueSummary, error) {
	m.trackCall("CreatePullRequest", map[string]any{
		"head":      head,
		"base":      base,
		"title":     title,
		"body":      body,
		"assignees": assignees,
		"labels":    labels,
	})
	return m.CreatePullResponse, m.CreatePullError
}

// Owner implements github.APIClient.
func (m *GitHubAPIClient) Owner() string { return m.OwnerValue }

// Repo implements github.APIClient.
func (m *GitHubAPIClient) Repo() string { return m.RepoValue }

// Ensure GitHubAPIClient implements github.APIClient interface.
var _ ghclient.APIClient = (*GitHubAPIClient)(nil)
