package version

import (
	"fmt"
	"strings"
)

// Intent is the kind of release the user asked for.
type Intent string

// Release intents.
const (
	IntentRC    Intent = "rc"
	IntentMinor Intent = "minor"
	IntentPatch Intent = "patch"
)

// ParseIntent converts a command line value into an Intent.
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentRC:
		return IntentRC, nil
	case IntentMinor:
		return IntentMinor, nil
	case IntentPatch:
		return IntentPatch, nil
	default:
		return "", fmt.Errorf("%w: %q (expected rc, minor or patch)", errInvalidIntent, s)
	}
}

// BranchKind classifies a branch name.
type BranchKind string

// Branch kinds.
const (
	BranchDevelop BranchKind = "develop"
	BranchRelease BranchKind = "release"
	BranchOther   BranchKind = "other"
)

// BranchRef is a classified branch name.
type BranchRef struct {
	Name string
	Kind BranchKind
}

// ClassifyBranch classifies a branch as develop, a release branch or anything else.
// Release classification is a prefix match on "release/".
func ClassifyBranch(name string) BranchRef {
	switch {
	case name == DevelopBranch:
		return BranchRef{Name: name, Kind: BranchDevelop}
	case strings.HasPrefix(name, ReleaseBranchPrefix):
		return BranchRef{Name: name, Kind: BranchRelease}
	default:
		return BranchRef{Name: name, Kind: BranchOther}
	}
}

// NextReleaseCandidate returns the next release candidate:
// a dev version becomes rc1 of the same triple, rcN becomes rcN+1.
func NextReleaseCandidate(v Version) (Version, error) {
	switch v.Channel {
	case ChannelDev:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch, Channel: ChannelRC, RC: 1}, nil
	case ChannelRC:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch, Channel: ChannelRC, RC: v.RC + 1}, nil
	default:
		return Version{}, fmt.Errorf(
			"%w: cannot cut a release candidate from a patch release; start from dev or rc (current %s)",
			errInvalidVersionTransition, v)
	}
}

// NextPatch returns the next final release: a release candidate becomes
// MAJOR.MINOR.0 and a final release has its patch number incremented.
func NextPatch(v Version) (Version, error) {
	switch v.Channel {
	case ChannelRC:
		return Version{Major: v.Major, Minor: v.Minor, Patch: 0, Channel: ChannelStable}, nil
	case ChannelStable:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1, Channel: ChannelStable}, nil
	default:
		return Version{}, fmt.Errorf(
			"%w: %s is a development version, must cut a release candidate first",
			errInvalidVersionTransition, v)
	}
}

// NextDev returns the development version that follows v on develop.
func NextDev(v Version) Version {
	return Version{Major: v.Major, Minor: v.Minor + 1, Patch: 0, Channel: ChannelDev}
}

// ValidateBranchForIntent checks that intent may be executed from branch with
// the current version.
func ValidateBranchForIntent(branch string, current Version, intent Intent) error {
	ref := ClassifyBranch(branch)

	switch intent {
	case IntentRC:
		if ref.Kind == BranchDevelop && current.IsDev() {
			return nil
		}
		if ref.Kind == BranchRelease && current.IsRC() {
			return nil
		}
		return fmt.Errorf(
			"%w: release candidates are cut from %s with a dev version or from a release branch with an rc version (branch %q, version %s)",
			errBranchVersionMismatch, DevelopBranch, branch, current)
	case IntentMinor, IntentPatch:
		if ref.Kind == BranchRelease {
			return nil
		}
		return fmt.Errorf("%w: %s releases must run from a %s* branch, got %q",
			errNotAReleaseBranch, intent, ReleaseBranchPrefix, branch)
	default:
		return fmt.Errorf("%w: %q", errInvalidIntent, intent)
	}
}

// ReleasePlan is the outcome of planning a release.
type ReleasePlan struct {
	Intent  Intent
	Branch  BranchRef
	Current Version
	Next    Version
	// TargetBranch is derived from Next, never from the current branch name.
	TargetBranch string
}

// FromDevelop reports whether the plan starts a new minor line from develop.
func (p ReleasePlan) FromDevelop() bool {
	return p.Branch.Kind == BranchDevelop
}

// Plan validates the branch and computes the next version for intent.
func Plan(branch string, current Version, intent Intent) (ReleasePlan, error) {
	if err := ValidateBranchForIntent(branch, current, intent); err != nil {
		return ReleasePlan{}, err
	}

	var (
		next Version
		err  error
	)
	switch intent {
	case IntentRC:
		next, err = NextReleaseCandidate(current)
	default:
		next, err = NextPatch(current)
	}
	if err != nil {
		return ReleasePlan{}, err
	}

	return ReleasePlan{
		Intent:       intent,
		Branch:       ClassifyBranch(branch),
		Current:      current,
		Next:         next,
		TargetBranch: next.ReleaseBranch(),
	}, nil
}
