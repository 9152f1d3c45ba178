package runner

import "errors"

var (
	errEmptyCommand  = errors.New("empty command")
	errCommandFailed = errors.New("command failed")

	// ErrEmptyCommand is returned when the command line has no words.
	ErrEmptyCommand = errEmptyCommand
	// ErrCommandFailed is returned when the command exits with a non-zero status.
	ErrCommandFailed = errCommandFailed
)
