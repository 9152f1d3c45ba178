package release

import "errors"

var (
	errLocalTestFailure     = errors.New("tests execution failed, fix the errors and run again")
	errUnstagedChanges      = errors.New("there are changes not staged in your project, commit or stash them")
	errPendingLocalization  = errors.New("there are open localization pull requests, merge them and run again")
	errAborted              = errors.New("release aborted")
	errVersionFileMalformed = errors.New("version file does not hold a valid version")

	// ErrLocalTestFailure is returned after the working tree was restored
	// because the test suite failed.
	ErrLocalTestFailure = errLocalTestFailure
	// ErrUnstagedChanges is returned by the preflight when the working tree is dirty.
	ErrUnstagedChanges = errUnstagedChanges
	// ErrPendingLocalization is returned by the preflight when translation
	// pull requests are still open.
	ErrPendingLocalization = errPendingLocalization
	// ErrAborted is returned when the user declines to continue.
	ErrAborted = errAborted
	// ErrVersionFileMalformed is returned when the version file cannot be parsed.
	ErrVersionFileMalformed = errVersionFileMalformed
)
