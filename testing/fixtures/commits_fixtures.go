package fixtures

import (
	"crypto/sha1" //nolint:gosec // Commit ids only.
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sgaunet/release-toolbox/pkg/commits"
)

// TestAuthor is the author of fixture commits.
var TestAuthor = object.Signature{
	Name:  "Test Developer",
	Email: "test@example.com",
	When:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
}

// GitCommit returns a go-git commit whose hash is derived from message.
func GitCommit(message string) *object.Commit {
	return &object.Commit{
		Hash:         plumbing.Hash(sha1.Sum([]byte(message))),
		Author:       TestAuthor,
		Committer:    TestAuthor,
		Message:      message,
		ParentHashes: []plumbing.Hash{plumbing.ZeroHash},
	}
}

// ParsedCommit returns the domain commit of GitCommit(message).
func ParsedCommit(message string) commits.Commit {
	return commits.ParseCommit(GitCommit(message))
}

// ChangelogHistory returns a one-line history covering every changelog category,
// a translation sync, an unresolvable id and a commit without a PR id.
func ChangelogHistory() []string {
	return []string{
		"a1b2c3d Fix proposals filter (#12345)",
		"b2c3d4e Add meetings calendar (#12346)",
		"c3d4e5f New Crowdin updates (#12350)",
		"d4e5f6a Bump rubocop (#12348)",
		"e5f6a7b Typo in README",
		"f6a7b8c Mystery change (#99999)",
		"a7b8c9d Fix proposals filter again (#12345)",
	}
}
