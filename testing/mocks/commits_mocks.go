package mocks

import (
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sgaunet/release-toolbox/pkg/commits"
)

// CommitHistory is a mock implementation of commits.History returning a fixed
// newest-first history.
type CommitHistory struct {
	recorder

	Commits []*object.Commit
	Err     error
}

// NewCommitHistory creates a mock history returning commits, newest first.
func NewCommitHistory(newestFirst ...*object.Commit) *CommitHistory {
	return &CommitHistory{Commits: newestFirst}
}

// CommitsSince implements commits.History.
func (m *CommitHistory) CommitsSince(since string) ([]*object.Commit, error) {
	m.trackCall("CommitsSince", map[string]any{"since": since})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Commits, nil
}

// Ensure CommitHistory implements commits.History interface.
var _ commits.History = (*CommitHistory)(nil)
