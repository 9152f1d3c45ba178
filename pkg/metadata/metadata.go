// Package metadata defines the normalized view of a forge issue or pull request
// shared by the changelog and backport logic, and a per-run memoizing cache in
// front of the forge.
package metadata

import (
	"context"
	"errors"
	"time"

	"github.com/sgaunet/release-toolbox/internal/labels"
)

// Issue states.
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateMerged = "merged"
)

var errUnresolvable = errors.New("issue metadata could not be resolved")

// ErrUnresolvable is returned by a Source when an id does not resolve to an
// issue or pull request. It is not fatal: callers skip the id and report it.
var ErrUnresolvable = errUnresolvable

// IssueMetadata is an immutable snapshot of an issue or pull request.
type IssueMetadata struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	State         string   `json:"state,omitempty"`
	IsPullRequest bool     `json:"is_pull_request"`
	IsMerged      bool     `json:"is_merged"`
	Labels        []string `json:"labels"`
	Types         []string `json:"type"`
	Modules       []string `json:"modules"`
}

// HasLabel reports whether the issue carries label.
func (m IssueMetadata) HasLabel(label string) bool {
	return labels.Contains(m.Labels, label)
}

// HasType reports whether label is one of the issue's change types.
func (m IssueMetadata) HasType(label string) bool {
	return labels.Contains(m.Types, label)
}

// Raw is the forge-agnostic payload adapters fill in before normalization.
type Raw struct {
	ID            int
	Title         string
	State         string
	IsPullRequest bool
	MergedAt      *time.Time
	Labels        []string
}

// Normalize converts a raw forge payload into IssueMetadata. A pull request is
// merged only when it carries a non-zero merge timestamp; its state is then
// reported as "merged".
func Normalize(raw Raw) IssueMetadata {
	sorted := labels.Sorted(raw.Labels)
	merged := raw.IsPullRequest && raw.MergedAt != nil && !raw.MergedAt.IsZero()

	state := raw.State
	if merged {
		state = StateMerged
	}

	return IssueMetadata{
		ID:            raw.ID,
		Title:         raw.Title,
		State:         state,
		IsPullRequest: raw.IsPullRequest,
		IsMerged:      merged,
		Labels:        sorted,
		Types:         labels.ExtractTypes(sorted),
		Modules:       labels.ExtractModules(sorted),
	}
}

// Ref returns the lightweight reference for m.
func (m IssueMetadata) Ref() Reference {
	return Reference{ID: m.ID, Title: m.Title, State: m.State}
}

// Reference is a lightweight pointer to an issue or pull request, as returned
// by searches and related-issue lookups.
type Reference struct {
	ID    int
	Title string
	// State is "merged" for merged pull requests, otherwise the forge state.
	State string
}

// Source fetches issue metadata by id.
type Source interface {
	Fetch(ctx context.Context, id int) (IssueMetadata, error)
}
