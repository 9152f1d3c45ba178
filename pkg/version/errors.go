package version

import "errors"

// Sentinel errors for version parsing and release transitions.
var (
	errInvalidVersion           = errors.New("invalid version number")
	errInvalidVersionTransition = errors.New("invalid version transition")
	errBranchVersionMismatch    = errors.New("branch does not match the version channel")
	errNotAReleaseBranch        = errors.New("not a release branch")
	errInvalidIntent            = errors.New("invalid release type")

	// ErrInvalidVersion is returned when a string is not MAJOR.MINOR.PATCH[.dev|.rcN].
	ErrInvalidVersion = errInvalidVersion
	// ErrInvalidVersionTransition is returned when the requested transition is illegal
	// for the current channel (e.g. a release candidate from a patch release).
	ErrInvalidVersionTransition = errInvalidVersionTransition
	// ErrBranchVersionMismatch is returned when a release candidate is requested
	// from a branch that does not carry the matching channel.
	ErrBranchVersionMismatch = errBranchVersionMismatch
	// ErrNotAReleaseBranch is returned when a minor or patch release is requested
	// outside of a release branch.
	ErrNotAReleaseBranch = errNotAReleaseBranch
	// ErrInvalidIntent is returned for an unknown release type.
	ErrInvalidIntent = errInvalidIntent
)
