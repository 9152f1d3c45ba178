package git

import (
	"errors"
	"fmt"
	"time"
)

var (
	errNotAGitRepository = errors.New("not a git repository (or any parent up to mount point)")
	errDetachedHead      = errors.New("HEAD is not pointing to a branch")
	errNoRemoteURL       = errors.New("no URLs found for remote")
	errUnknownPlatform   = errors.New("repository is not hosted on GitLab or GitHub")
	errNoCommitTouching  = errors.New("no commit touches path")
	errNothingToCommit   = errors.New("nothing to commit")
)

// Exported sentinels for errors.Is checks by callers.
var (
	ErrNotAGitRepository = errNotAGitRepository
	ErrDetachedHead      = errDetachedHead
	ErrNoRemoteURL       = errNoRemoteURL
	ErrUnknownPlatform   = errUnknownPlatform
	ErrNoCommitTouching  = errNoCommitTouching
	ErrNothingToCommit   = errNothingToCommit
)

// GitTimeoutError reports a git operation interrupted by its context.
//
//nolint:revive // Name kept explicit for errors.As call sites.
type GitTimeoutError struct {
	Operation string
	Timeout   time.Duration
	Err       error
}

func (e *GitTimeoutError) Error() string {
	return fmt.Sprintf("git %s did not complete within %s: %v", e.Operation, e.Timeout, e.Err)
}

func (e *GitTimeoutError) Unwrap() error {
	return e.Err
}
