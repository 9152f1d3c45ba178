// Package git wraps a go-git repository with the operations the release
// tooling needs: branch inspection and switching, status, commit, push and
// pull with forge credentials, restoring the worktree and platform detection.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sgaunet/bullets"
	"github.com/sgaunet/release-toolbox/internal/logger"
	"github.com/sgaunet/release-toolbox/internal/security"
	"github.com/sgaunet/release-toolbox/internal/urlutil"
)

// DefaultRemote is the remote every operation works against.
const DefaultRemote = "origin"

// Repository is a git working copy opened with go-git.
type Repository struct {
	repo *git.Repository
	root string
	log  *bullets.Logger
}

// Platform identifies the forge hosting the origin remote.
type Platform string

// Supported platforms.
const (
	PlatformUnknown Platform = ""
	PlatformGitLab  Platform = "gitlab"
	PlatformGitHub  Platform = "github"
)

// OpenRepository opens the repository containing path, walking up to the
// closest directory holding a .git entry.
func OpenRepository(path string) (*Repository, error) {
	root, err := findGitRoot(path)
	if err != nil {
		return nil, fmt.Errorf("failed to locate git repository: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	return &Repository{repo: repo, root: root, log: logger.NoLogger()}, nil
}

// findGitRoot returns the first directory from path upwards that contains .git.
func findGitRoot(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, git.GitDirName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errNotAGitRepository
		}
		dir = parent
	}
}

// SetLogger sets the logger for the repository.
func (r *Repository) SetLogger(log *bullets.Logger) {
	r.log = log
	r.log.Debug("Git repository logger configured")
}

// Root returns the worktree root directory.
func (r *Repository) Root() string {
	return r.root
}

// GetCurrentBranch returns the short name of the checked out branch.
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", errDetachedHead
	}

	return head.Name().Short(), nil
}

// HasUnstagedChanges reports whether tracked files differ from HEAD.
// Untracked files are ignored.
func (r *Repository) HasUnstagedChanges() (bool, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get repository status: %w", err)
	}

	for path, fileStatus := range status {
		if fileStatus.Worktree == git.Untracked {
			continue
		}
		if fileStatus.Worktree != git.Unmodified || fileStatus.Staging != git.Unmodified {
			r.log.Debug("Unstaged change: " + path)
			return true, nil
		}
	}

	return false, nil
}

// DetectPlatform returns the forge hosting the origin remote.
func (r *Repository) DetectPlatform() (Platform, error) {
	remoteURL, err := r.GetRemoteURL(DefaultRemote)
	if err != nil {
		return PlatformUnknown, err
	}
	return PlatformFromURL(remoteURL)
}

// PlatformFromURL classifies a remote URL by host. Self-hosted GitLab
// instances are recognized by a host containing "gitlab".
func PlatformFromURL(remoteURL string) (Platform, error) {
	host, _ := urlutil.HostAndPath(remoteURL)
	switch {
	case strings.Contains(host, "gitlab"):
		return PlatformGitLab, nil
	case host == "github.com":
		return PlatformGitHub, nil
	default:
		return PlatformUnknown, fmt.Errorf("%w: %s", errUnknownPlatform, security.SanitizeString(remoteURL))
	}
}

// GetRemoteURL returns the first URL of the named remote.
func (r *Repository) GetRemoteURL(remoteName string) (string, error) {
	remote, err := r.repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w %s", errNoRemoteURL, remoteName)
	}

	return urls[0], nil
}

// SwitchBranch checks out an existing local branch.
func (r *Repository) SwitchBranch(ctx context.Context, branchName string) error {
	return r.withContext(ctx, "switch", func() error {
		worktree, err := r.repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree: %w", err)
		}
		r.log.Debug("Switching to branch " + branchName)
		return worktree.Checkout(&git.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(branchName),
			Keep:   true,
		})
	})
}

// CreateBranch creates branchName at HEAD and checks it out, keeping local changes.
func (r *Repository) CreateBranch(ctx context.Context, branchName string) error {
	return r.withContext(ctx, "create branch", func() error {
		worktree, err := r.repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree: %w", err)
		}
		r.log.Debug("Creating branch " + branchName)
		return worktree.Checkout(&git.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(branchName),
			Create: true,
			Keep:   true,
		})
	})
}

// Pull fast-forwards the current branch from origin. An up-to-date branch is not an error.
func (r *Repository) Pull(ctx context.Context) error {
	return r.withContext(ctx, "pull", func() error {
		worktree, err := r.repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree: %w", err)
		}
		auth, err := r.auth()
		if err != nil {
			return err
		}
		err = worktree.PullContext(ctx, &git.PullOptions{
			RemoteName: DefaultRemote,
			Auth:       auth,
		})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return err
	})
}

// PushBranch pushes the local branch to origin under the same name.
func (r *Repository) PushBranch(ctx context.Context, branchName string) error {
	return r.withContext(ctx, "push", func() error {
		auth, err := r.auth()
		if err != nil {
			return err
		}
		r.log.Debug("Pushing branch " + branchName)
		err = r.repo.PushContext(ctx, &git.PushOptions{
			RemoteName: DefaultRemote,
			Auth:       auth,
			RefSpecs: []config.RefSpec{
				config.RefSpec("refs/heads/" + branchName + ":refs/heads/" + branchName),
			},
		})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return err
	})
}

// DeleteBranch removes a local branch reference.
func (r *Repository) DeleteBranch(ctx context.Context, branchName string) error {
	return r.withContext(ctx, "delete branch", func() error {
		return r.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(branchName))
	})
}

// CommitAll stages every change, untracked files included, and commits
// with the author from the git configuration.
func (r *Repository) CommitAll(ctx context.Context, message string) (string, error) {
	var hash plumbing.Hash
	err := r.withContext(ctx, "commit", func() error {
		worktree, err := r.repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree: %w", err)
		}
		if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
			return fmt.Errorf("failed to stage changes: %w", err)
		}
		status, err := worktree.Status()
		if err != nil {
			return fmt.Errorf("failed to get repository status: %w", err)
		}
		if status.IsClean() {
			return errNothingToCommit
		}
		hash, err = worktree.Commit(message, &git.CommitOptions{})
		return err
	})
	if err != nil {
		return "", err
	}

	r.log.Debug("Created commit " + hash.String()[:7])
	return hash.String(), nil
}

// DiscardChanges restores tracked files to HEAD, dropping staged and
// unstaged modifications.
func (r *Repository) DiscardChanges(ctx context.Context) error {
	return r.withContext(ctx, "restore", func() error {
		worktree, err := r.repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree: %w", err)
		}
		r.log.Debug("Discarding working tree changes")
		return worktree.Reset(&git.ResetOptions{Mode: git.HardReset})
	})
}

// LastCommitTouching returns the hash of the most recent commit reachable from
// HEAD that modified path.
func (r *Repository) LastCommitTouching(path string) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash(), FileName: &path})
	if err != nil {
		return "", fmt.Errorf("failed to get commit log: %w", err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return "", fmt.Errorf("%w %s", errNoCommitTouching, path)
	}
	return commit.Hash.String(), nil
}

// CommitsSince returns the commits reachable from HEAD and not from since,
// newest first.
func (r *Repository) CommitsSince(since string) ([]*object.Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get current HEAD: %w", err)
	}

	sinceHash, err := r.repo.ResolveRevision(plumbing.Revision(since))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", since, err)
	}

	excluded := make(map[plumbing.Hash]bool)
	sinceIter, err := r.repo.Log(&git.LogOptions{From: *sinceHash})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}
	defer sinceIter.Close()
	err = sinceIter.ForEach(func(c *object.Commit) error {
		excluded[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits of %s: %w", since, err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}
	defer iter.Close()

	var commits []*object.Commit
	// The walk is depth-first: the side of a merge is reached after since, so
	// only the excluded set bounds the range.
	err = iter.ForEach(func(c *object.Commit) error {
		if !excluded[c.Hash] {
			commits = append(commits, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	return commits, nil
}

// withContext runs op unless ctx is already done, and converts a context
// failure into a GitTimeoutError.
func (r *Repository) withContext(ctx context.Context, operation string, op func() error) error {
	if err := ctx.Err(); err != nil {
		return newTimeoutError(ctx, operation, err)
	}

	err := op()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return newTimeoutError(ctx, operation, ctxErr)
	}
	if errors.Is(err, errNothingToCommit) {
		return err
	}
	return security.SanitizeError(fmt.Errorf("git %s failed: %w", operation, err))
}

func newTimeoutError(ctx context.Context, operation string, err error) *GitTimeoutError {
	var timeout time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline).Round(time.Second)
	}
	return &GitTimeoutError{Operation: operation, Timeout: timeout, Err: err}
}
