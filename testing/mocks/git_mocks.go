package mocks

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/sgaunet/release-toolbox/pkg/git"
	"github.com/sgaunet/release-toolbox/pkg/release"
)

// Repository is a mock git working copy with call tracking. Files live in a
// real directory (RootDir); branches and commits are simulated.
type Repository struct {
	recorder

	RootDir       string
	Branch        string
	Dirty         bool
	LastCommitSHA string
	Commits       []*object.Commit
	// Errors maps a method name to the error it returns.
	Errors map[string]error
	// RollbackResult is returned by Rollback; nil means a successful rollback.
	RollbackResult *git.RollbackReport

	commitCount int
}

// NewRepository creates a mock repository rooted at dir on branch.
func NewRepository(dir, branch string) *Repository {
	return &Repository{
		RootDir:       dir,
		Branch:        branch,
		LastCommitSHA: "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0",
		Errors:        make(map[string]error),
	}
}

// Root returns the working copy directory.
func (m *Repository) Root() string { return m.RootDir }

// GetCurrentBranch returns the simulated current branch.
func (m *Repository) GetCurrentBranch() (string, error) {
	m.trackCall("GetCurrentBranch", nil)
	return m.Branch, m.Errors["GetCurrentBranch"]
}

// HasUnstagedChanges returns Dirty.
func (m *Repository) HasUnstagedChanges() (bool, error) {
	m.trackCall("HasUnstagedChanges", nil)
	return m.Dirty, m.Errors["HasUnstagedChanges"]
}

// SwitchBranch records the switch and updates the current branch.
func (m *Repository) SwitchBranch(_ context.Context, branchName string) error {
	m.trackCall("SwitchBranch", map[string]any{"branch": branchName})
	if err := m.Errors["SwitchBranch"]; err != nil {
		return err
	}
	m.Branch = branchName
	return nil
}

// CreateBranch records the creation and checks the new branch out.
func (m *Repository) CreateBranch(_ context.Context, branchName string) error {
	m.trackCall("CreateBranch", map[string]any{"branch": branchName})
	if err := m.Errors["CreateBranch"]; err != nil {
		return err
	}
	m.Branch = branchName
	return nil
}

// Pull records a pull of the current branch.
func (m *Repository) Pull(_ context.Context) error {
	m.trackCall("Pull", map[string]any{"branch": m.Branch})
	return m.Errors["Pull"]
}

// PushBranch records a push.
func (m *Repository) PushBranch(_ context.Context, branchName string) error {
	m.trackCall("PushBranch", map[string]any{"branch": branchName})
	return m.Errors["PushBranch"]
}

// CommitAll records a commit on the current branch.
func (m *Repository) CommitAll(_ context.Context, message string) (string, error) {
	m.trackCall("CommitAll", map[string]any{"message": message, "branch": m.Branch})
	if err := m.Errors["CommitAll"]; err != nil {
		return "", err
	}
	m.commitCount++
	return fmt.Sprintf("commit-%d", m.commitCount), nil
}

// LastCommitTouching returns LastCommitSHA.
func (m *Repository) LastCommitTouching(path string) (string, error) {
	m.trackCall("LastCommitTouching", map[string]any{"path": path})
	return m.LastCommitSHA, m.Errors["LastCommitTouching"]
}

// CommitsSince returns Commits.
func (m *Repository) CommitsSince(since string) ([]*object.Commit, error) {
	m.trackCall("CommitsSince", map[string]any{"since": since})
	if err := m.Errors["CommitsSince"]; err != nil {
		return nil, err
	}
	return m.Commits, nil
}

// Rollback records the rollback and returns RollbackResult.
func (m *Repository) Rollback(_ context.Context, baseBranch, workBranch string) *git.RollbackReport {
	m.trackCall("Rollback", map[string]any{"base": baseBranch, "work": workBranch})
	if m.RollbackResult != nil {
		return m.RollbackResult
	}
	m.Branch = baseBranch
	return &git.RollbackReport{
		Discarded:      true,
		SwitchedBranch: true,
		DeletedBranch:  workBranch != "" && workBranch != baseBranch,
		BaseBranch:     baseBranch,
		WorkBranch:     workBranch,
	}
}

// BranchArgs returns the branch argument of every call to method, in order.
func (m *Repository) BranchArgs(method string) []string {
	var out []string
	for _, call := range m.GetCalls() {
		if call.Method == method {
			out = append(out, call.Args["branch"].(string))
		}
	}
	return out
}

// Prompter is a mock confirmation prompt answering from a queue.
// Once the queue is empty every question is answered yes.
type Prompter struct {
	recorder

	Answers []bool
	Err     error
}

// NewPrompter creates a prompter answering the given answers in order.
func NewPrompter(answers ...bool) *Prompter {
	return &Prompter{Answers: answers}
}

// Confirm records the question and pops the next answer.
func (m *Prompter) Confirm(message string) (bool, error) {
	m.trackCall("Confirm", map[string]any{"message": message})
	if m.Err != nil {
		return false, m.Err
	}
	if len(m.Answers) == 0 {
		return true, nil
	}
	answer := m.Answers[0]
	m.Answers = m.Answers[1:]
	return answer, nil
}

// Ensure the mocks implement the release interfaces.
var (
	_ release.Repository = (*Repository)(nil)
	_ release.Prompter   = (*Prompter)(nil)
)
