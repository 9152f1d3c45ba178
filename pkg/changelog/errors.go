package changelog

import "errors"

var errAnchorNotFound = errors.New("changelog anchor not found")

// ErrAnchorNotFound is returned by Splice when the changelog lacks the
// "# Changelog\n\n" header.
var ErrAnchorNotFound = errAnchorNotFound
