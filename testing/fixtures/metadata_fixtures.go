// Package fixtures provides common test data structures for testing.
package fixtures

import (
	"time"

	"github.com/sgaunet/release-toolbox/pkg/metadata"
)

// Ids used across fixtures.
const (
	FixPRID         = 12345
	FeaturePRID     = 12346
	OpenFixPRID     = 12347
	InternalPRID    = 12348
	BackportPRID027 = 12400
	BackportPRID026 = 12401
)

// MergedAt is the merge timestamp used by merged fixtures.
var MergedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// MergedFix returns a merged fix pull request targeting two release lines.
func MergedFix() metadata.IssueMetadata {
	return metadata.Normalize(metadata.Raw{
		ID:            FixPRID,
		Title:         "Fix proposals filter",
		State:         metadata.StateClosed,
		IsPullRequest: true,
		MergedAt:      &MergedAt,
		Labels: []string{
			"type: fix",
			"module: proposals",
			"release: v0.27",
			"release: v0.26",
		},
	})
}

// MergedFeature returns a merged feature pull request.
func MergedFeature() metadata.IssueMetadata {
	return metadata.Normalize(metadata.Raw{
		ID:            FeaturePRID,
		Title:         "Add meetings calendar",
		State:         metadata.StateClosed,
		IsPullRequest: true,
		MergedAt:      &MergedAt,
		Labels:        []string{"type: feature", "module: meetings"},
	})
}

// OpenFix returns a fix pull request that is not merged yet.
func OpenFix() metadata.IssueMetadata {
	return metadata.Normalize(metadata.Raw{
		ID:            OpenFixPRID,
		Title:         "Fix budgets rounding",
		State:         metadata.StateOpen,
		IsPullRequest: true,
		Labels:        []string{"type: fix", "module: budgets", "release: v0.27"},
	})
}

// MergedInternal returns a merged internal pull request.
func MergedInternal() metadata.IssueMetadata {
	return metadata.Normalize(metadata.Raw{
		ID:            InternalPRID,
		Title:         "Bump rubocop",
		State:         metadata.StateClosed,
		IsPullRequest: true,
		MergedAt:      &MergedAt,
		Labels:        []string{"type: internal"},
	})
}

// BackportReference returns a reference to a backport of the merged fix.
func BackportReference(id int, version, state string) metadata.Reference {
	return metadata.Reference{
		ID:    id,
		Title: "Backport 'Fix proposals filter' to v" + version,
		State: state,
	}
}
