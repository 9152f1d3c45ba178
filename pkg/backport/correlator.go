// Package backport decides which stable release lines still need a backport
// of a merged fix, drives the external backport tool for them and reports the
// backport status of recent fixes.
package backport

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sgaunet/release-toolbox/internal/labels"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
)

// backportTitlePrefix starts the title of every backport pull request.
const backportTitlePrefix = "Backport"

// Action is what to do for one target version.
type Action string

// Actions.
const (
	ActionAttempt Action = "attempt"
	ActionSkip    Action = "skip"
)

// Decision is the plan for a single target version.
type Decision struct {
	Version string
	Action  Action
	// Existing is the backport found for this version when Action is ActionSkip.
	Existing *metadata.Reference
}

// ExtractTargetVersions returns the "MAJOR.MINOR" tokens of the "release: vX.Y"
// labels, in reverse label order. Non-matching labels are ignored.
func ExtractTargetVersions(names []string) []string {
	versions := make([]string, 0, len(names))
	for _, name := range names {
		if v, ok := labels.ReleaseVersion(name); ok {
			versions = append(versions, v)
		}
	}
	slices.Reverse(versions)
	return versions
}

// FindExistingBackport returns the first related reference whose title starts
// with "Backport" and contains target. Matching is a plain substring check.
func FindExistingBackport(related []metadata.Reference, target string) (metadata.Reference, bool) {
	for _, ref := range related {
		if strings.HasPrefix(ref.Title, backportTitlePrefix) && strings.Contains(ref.Title, target) {
			return ref, true
		}
	}
	return metadata.Reference{}, false
}

// CheckPreconditions verifies that pr may be backported at all: it must be a
// merged fix without the "no-backport" label.
func CheckPreconditions(pr metadata.IssueMetadata) error {
	if !pr.HasLabel(labels.TypeFix) {
		return fmt.Errorf("pull request #%d %w", pr.ID, errNotAFix)
	}
	if !pr.IsMerged {
		return fmt.Errorf("pull request #%d %w", pr.ID, errNotMerged)
	}
	if pr.HasLabel(labels.NoBackport) {
		return fmt.Errorf("pull request #%d %w (%s label)", pr.ID, errNotBackportable, labels.NoBackport)
	}
	return nil
}

// Plan checks the preconditions once, then decides per target version whether
// a backport must be attempted. The result only depends on its inputs.
func Plan(pr metadata.IssueMetadata, related []metadata.Reference) ([]Decision, error) {
	if err := CheckPreconditions(pr); err != nil {
		return nil, err
	}

	versions := ExtractTargetVersions(pr.Labels)
	decisions := make([]Decision, 0, len(versions))
	for _, v := range versions {
		if ref, ok := FindExistingBackport(related, v); ok {
			decisions = append(decisions, Decision{Version: v, Action: ActionSkip, Existing: &ref})
			continue
		}
		decisions = append(decisions, Decision{Version: v, Action: ActionAttempt})
	}
	return decisions, nil
}
