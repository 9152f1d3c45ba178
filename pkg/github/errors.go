package github

import "errors"

// Error definitions for GitHub API operations.
var (
	errTokenRequired    = errors.New("GITHUB_TOKEN environment variable is required")
	errInvalidURLFormat = errors.New("invalid GitHub URL format")
	errIssueNotFound    = errors.New("issue or pull request not found")
	errRepositoryNotSet = errors.New("repository is not set")

	// ErrTokenRequired is returned when GITHUB_TOKEN environment variable is missing.
	ErrTokenRequired = errTokenRequired
	// ErrInvalidURLFormat is returned when the GitHub URL format is invalid.
	ErrInvalidURLFormat = errInvalidURLFormat
	// ErrIssueNotFound is returned when an issue number does not exist in the repository.
	ErrIssueNotFound = errIssueNotFound
	// ErrRepositoryNotSet is returned when an API call is made before the repository is configured.
	ErrRepositoryNotSet = errRepositoryNotSet
)
