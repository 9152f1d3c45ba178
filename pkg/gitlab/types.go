package gitlab

import (
	"time"

	"github.com/sgaunet/bullets"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Constants for GitLab API operations.
const (
	minURLParts       = 2
	maxResultsPerPage = 100
	stateOpened       = "opened"
	stateMerged       = "merged"
)

// Client represents a GitLab API client wrapper bound to one project.
type Client struct {
	client      *gitlab.Client
	projectID   string
	projectPath string
	log         *bullets.Logger
}

// IssueSummary is the subset of an issue or merge request the release tooling needs.
type IssueSummary struct {
	IID            int
	Title          string
	State          string
	Description    string
	IsMergeRequest bool
	MergedAt       *time.Time
	Labels         []string
	WebURL         string
}

// Merged reports whether the summary is a merged merge request.
func (s IssueSummary) Merged() bool {
	return s.IsMergeRequest && s.MergedAt != nil && !s.MergedAt.IsZero()
}

// MergeRequestQuery filters merge request listings.
type MergeRequestQuery struct {
	State          string
	Search         string
	AuthorUsername string
	Labels         []string
	UpdatedAfter   *time.Time
}
