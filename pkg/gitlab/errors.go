// Package gitlab provides GitLab API client operations for the release tooling.
package gitlab

import "errors"

// Error definitions for GitLab API operations.
var (
	errTokenRequired    = errors.New("GITLAB_TOKEN environment variable is required")
	errInvalidURLFormat = errors.New("invalid GitLab URL format")
	errUserNotFound     = errors.New("failed to find user")
	errNotFound         = errors.New("issue or merge request not found")
	errProjectNotSet    = errors.New("project is not set")

	// Exported errors for testing and external use.
	ErrTokenRequired    = errTokenRequired
	ErrInvalidURLFormat = errInvalidURLFormat
	ErrUserNotFound     = errUserNotFound
	ErrNotFound         = errNotFound
	ErrProjectNotSet    = errProjectNotSet
)
