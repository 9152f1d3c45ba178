package platform

import "errors"

// Sentinel errors for platform operations.
var (
	// ErrUnsupportedPlatform is returned when the detected platform is not supported.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrIncompleteCreateParams is returned when only one of head or base is set.
	ErrIncompleteCreateParams = errors.New("pull request needs both head and base branches")
)
