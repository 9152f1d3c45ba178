package mocks

import (
	"context"
	"fmt"

	"github.com/sgaunet/release-toolbox/pkg/backport"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
	"github.com/sgaunet/release-toolbox/pkg/platform"
	"github.com/sgaunet/release-toolbox/pkg/release"
)

// PlatformProvider is a mock implementation of platform.Provider with call tracking.
// It embeds a MetadataSource so Fetch behaves the same way.
type PlatformProvider struct {
	*MetadataSource

	InitializeError    error
	Related            map[int][]metadata.Reference
	RelatedError       error
	SearchResponse     []metadata.Reference
	SearchError        error
	CreateResponse     *platform.Created
	CreateError        error
	PlatformNameValue  string
	RepositoryURLValue string

	nextID int
}

// NewPlatformProvider creates a new mock platform provider serving the given issues.
func NewPlatformProvider(issues ...metadata.IssueMetadata) *PlatformProvider {
	return &PlatformProvider{
		MetadataSource:     NewMetadataSource(issues...),
		Related:            make(map[int][]metadata.Reference),
		PlatformNameValue:  "MockPlatform",
		RepositoryURLValue: "https://github.com/decidim/decidim",
		nextID:             90000,
	}
}

// Initialize implements platform.Provider.
func (m *PlatformProvider) Initialize(_ context.Context, remoteURL string) error {
	m.trackCall("Initialize", map[string]any{"remoteURL": remoteURL})
	return m.InitializeError
}

// RelatedIssues implements platform.Provider.
func (m *PlatformProvider) RelatedIssues(_ context.Context, id int) ([]metadata.Reference, error) {
	m.trackCall("RelatedIssues", map[string]any{"id": id})
	if m.RelatedError != nil {
		return nil, m.RelatedError
	}
	return m.Related[id], nil
}

// Search implements platform.Provider.
func (m *PlatformProvider) Search(_ context.Context, query platform.SearchQuery) ([]metadata.Reference, error) {
	m.trackCall("Search", map[string]any{"query": query})
	return m.SearchResponse, m.SearchError
}

// Create implements platform.Provider. Without a configured response it
// returns a fresh id.
func (m *PlatformProvider) Create(_ context.Context, params platform.CreateParams) (*platform.Created, error) {
	m.trackCall("Create", map[string]any{
		"title":     params.Title,
		"body":      params.Body,
		"labels":    params.Labels,
		"assignees": params.Assignees,
		"head":      params.Head,
		"base":      params.Base,
	})
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	if m.CreateResponse != nil {
		return m.CreateResponse, nil
	}
	m.nextID++
	return &platform.Created{
		ID:          m.nextID,
		WebURL:      fmt.Sprintf("%s/issues/%d", m.RepositoryURLValue, m.nextID),
		PullRequest: params.IsPullRequest(),
	}, nil
}

// PlatformName implements platform.Provider.
func (m *PlatformProvider) PlatformName() string { return m.PlatformNameValue }

// RepositoryURL implements platform.Provider.
func (m *PlatformProvider) RepositoryURL() string { return m.RepositoryURLValue }

// Ensure PlatformProvider implements the forge interfaces.
var (
	_ platform.Provider = (*PlatformProvider)(nil)
	_ release.Forge     = (*PlatformProvider)(nil)
	_ backport.Forge    = (*PlatformProvider)(nil)
)
