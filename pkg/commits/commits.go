// Package commits retrieves the commit history of a release range in
// chronological order, the input of changelog generation.
package commits

import (
	"fmt"
	"slices"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sgaunet/bullets"
	"github.com/sgaunet/release-toolbox/internal/logger"
)

// History is the git access the retriever needs. It is satisfied by
// *git.Repository.
type History interface {
	// CommitsSince returns the commits reachable from HEAD and not from since, newest first.
	CommitsSince(since string) ([]*object.Commit, error)
}

// Retriever handles commit history retrieval.
type Retriever struct {
	history History
	log     *bullets.Logger
}

// NewRetriever creates a new commit retriever over history.
func NewRetriever(history History) *Retriever {
	return &Retriever{
		history: history,
		log:     logger.NoLogger(),
	}
}

// SetLogger sets the logger for the retriever.
func (r *Retriever) SetLogger(log *bullets.Logger) {
	r.log = log
}

// Since returns the commits of the range since..HEAD, oldest first.
// An empty range yields an empty slice.
func (r *Retriever) Since(since string) ([]Commit, error) {
	r.log.Debug(fmt.Sprintf("Retrieving commits %s..HEAD", since))

	raw, err := r.history.CommitsSince(since)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve commits since %s: %w", since, err)
	}

	commits := make([]Commit, 0, len(raw))
	for _, c := range raw {
		commits = append(commits, ParseCommit(c))
	}
	slices.Reverse(commits)

	r.log.Debug(fmt.Sprintf("Retrieved %d commits", len(commits)))
	return commits, nil
}

// LinesSince returns the one-line rendering of the range since..HEAD, oldest first.
func (r *Retriever) LinesSince(since string) ([]string, error) {
	commits, err := r.Since(since)
	if err != nil {
		return nil, err
	}
	return OneLines(commits), nil
}
