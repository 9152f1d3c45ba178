package github

import (
	"time"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/bullets"
)

// Constants for GitHub API operations.
const (
	minURLParts          = 2
	maxResultsPerPage    = 100
	eventCrossReferenced = "cross-referenced"
	stateMerged          = "merged"
)

// Client represents a GitHub API client wrapper bound to one repository.
type Client struct {
	client *github.Client
	owner  string
	repo   string
	log    *bullets.Logger
}

// IssueSummary is the subset of an issue or pull request the release tooling needs.
type IssueSummary struct {
	Number        int
	Title         string
	State         string
	IsPullRequest bool
	// MergedAt is set for merged pull requests only.
	MergedAt *time.Time
	Labels   []string
	HTMLURL  string
}

// Merged reports whether the summary is a merged pull request.
func (s IssueSummary) Merged() bool {
	return s.IsPullRequest && s.MergedAt != nil && !s.MergedAt.IsZero()
}

// EffectiveState returns "merged" for merged pull requests and the forge state otherwise.
func (s IssueSummary) EffectiveState() string {
	if s.Merged() {
		return stateMerged
	}
	return s.State
}
