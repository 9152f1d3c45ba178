// Package platform provides a unified abstraction layer over GitHub and GitLab
// for the release tooling.
//
// The [Provider] interface reads normalized issue metadata, cross references
// and searches, and creates issues and pull/merge requests. Use [NewProvider]
// to create the adapter matching the detected platform:
//
//	provider, err := platform.NewProvider(git.PlatformGitHub, logger)
//	provider.Initialize(ctx, remoteURL)
//	meta, _ := provider.Fetch(ctx, 12345)
//	related, _ := provider.RelatedIssues(ctx, 12345)
package platform

import "time"

// SearchQuery filters a pull/merge request search.
type SearchQuery struct {
	// Title matches a phrase in the title.
	Title string
	// Author is the username of the author.
	Author string
	// Labels must all be present.
	Labels []string
	// State is "open", "closed" or "merged"; empty means any.
	State string
	// MergedSince restricts merged results to the given date onwards.
	MergedSince *time.Time
}

// CreateParams holds parameters for creating an issue or a pull/merge request.
// Head and Base select a pull/merge request; without them an issue is created.
type CreateParams struct {
	Title     string
	Body      string
	Labels    []string
	Assignees []string
	Head      string
	Base      string
}

// IsPullRequest reports whether the parameters describe a pull/merge request.
func (p CreateParams) IsPullRequest() bool {
	return p.Head != "" && p.Base != ""
}

// Created describes a newly created issue or pull/merge request.
type Created struct {
	ID          int
	WebURL      string
	PullRequest bool
}
