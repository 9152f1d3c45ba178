package backport

import "errors"

// Precondition and attempt errors.
var (
	errNotAFix               = errors.New("does not contain `type: fix`")
	errNotMerged             = errors.New("is not merged")
	errNotBackportable       = errors.New("cannot be backported")
	errBackportAttemptFailed = errors.New("backport attempt failed")
	errInvalidReleaseLine    = errors.New("invalid release line, expected MAJOR.MINOR")

	// ErrNotAFix is returned when the pull request is not labeled as a fix.
	ErrNotAFix = errNotAFix
	// ErrNotMerged is returned when the pull request has not been merged yet.
	ErrNotMerged = errNotMerged
	// ErrNotBackportable is returned when the pull request opts out of backports.
	ErrNotBackportable = errNotBackportable
	// ErrBackportAttemptFailed is returned when the external backport command fails
	// for a single target version.
	ErrBackportAttemptFailed = errBackportAttemptFailed
	// ErrInvalidReleaseLine is returned when a report is asked for a malformed
	// release line.
	ErrInvalidReleaseLine = errInvalidReleaseLine
)
