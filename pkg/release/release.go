// Package release drives a release from the working copy: preflight checks,
// version bump, build steps, local test run, changelog generation and the
// pull requests opened on the forge.
//
// A release candidate started from the development branch first cuts the
// stable branch and bumps the development branch to the next minor version.
// Every other release prepares the bump on the stable branch itself.
package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sgaunet/bullets"

	"github.com/sgaunet/release-toolbox/internal/logger"
	"github.com/sgaunet/release-toolbox/internal/security"
	"github.com/sgaunet/release-toolbox/internal/timeutil"
	"github.com/sgaunet/release-toolbox/internal/urlutil"
	"github.com/sgaunet/release-toolbox/pkg/changelog"
	"github.com/sgaunet/release-toolbox/pkg/commits"
	"github.com/sgaunet/release-toolbox/pkg/config"
	"github.com/sgaunet/release-toolbox/pkg/git"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
	"github.com/sgaunet/release-toolbox/pkg/platform"
	"github.com/sgaunet/release-toolbox/pkg/runner"
	"github.com/sgaunet/release-toolbox/pkg/version"
)

// Repository is the git working copy a release runs in. It is satisfied by
// *git.Repository.
type Repository interface {
	commits.History

	Root() string
	GetCurrentBranch() (string, error)
	HasUnstagedChanges() (bool, error)
	SwitchBranch(ctx context.Context, branchName string) error
	CreateBranch(ctx context.Context, branchName string) error
	Pull(ctx context.Context) error
	PushBranch(ctx context.Context, branchName string) error
	CommitAll(ctx context.Context, message string) (string, error)
	LastCommitTouching(path string) (string, error)
	Rollback(ctx context.Context, baseBranch, workBranch string) *git.RollbackReport
}

// CommandRunner runs the configured build and test commands.
type CommandRunner interface {
	Run(ctx context.Context, command string, env map[string]string) (*runner.Result, error)
}

// Forge is the part of the forge a release reads from and writes to.
type Forge interface {
	metadata.Source
	Search(ctx context.Context, query platform.SearchQuery) ([]metadata.Reference, error)
	Create(ctx context.Context, params platform.CreateParams) (*platform.Created, error)
	RepositoryURL() string
}

// Prompter asks the user for confirmation.
type Prompter interface {
	Confirm(message string) (bool, error)
}

// Options tune a single release run.
type Options struct {
	// CheckUnstagedChanges aborts the release when the working tree is dirty.
	CheckUnstagedChanges bool
}

// Summary describes a finished release.
type Summary struct {
	Plan version.ReleasePlan
	// DevelopVersion is set when the development branch was bumped.
	DevelopVersion *version.Version
	// PullRequests lists the pull requests opened, in creation order.
	PullRequests []*platform.Created
}

// Releaser runs releases.
type Releaser struct {
	repo     Repository
	runner   CommandRunner
	forge    Forge
	prompter Prompter
	cfg      *config.Config
	log      *bullets.Logger
}

// NewReleaser creates a releaser. A nil cfg uses config.Default().
func NewReleaser(repo Repository, run CommandRunner, forge Forge, prompter Prompter, cfg *config.Config) *Releaser {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Releaser{
		repo:     repo,
		runner:   run,
		forge:    forge,
		prompter: prompter,
		cfg:      cfg,
		log:      logger.NoLogger(),
	}
}

// SetLogger sets the logger for the releaser.
func (r *Releaser) SetLogger(log *bullets.Logger) {
	r.log = log
}

// Plan reads the current branch and version and computes the release plan
// without side effects.
func (r *Releaser) Plan(intent version.Intent) (version.ReleasePlan, error) {
	branch, err := r.repo.GetCurrentBranch()
	if err != nil {
		return version.ReleasePlan{}, fmt.Errorf("failed to get current branch: %w", err)
	}
	current, err := r.readVersion()
	if err != nil {
		return version.ReleasePlan{}, err
	}

	planBranch := branch
	if branch == r.cfg.Project.DevelopBranch {
		planBranch = version.DevelopBranch
	}
	plan, err := version.Plan(planBranch, current, intent)
	if err != nil {
		return version.ReleasePlan{}, err
	}
	plan.Branch.Name = branch
	return plan, nil
}

// Preflight checks that a release can start: optionally a clean working tree,
// and no open pull request from the translation bot.
func (r *Releaser) Preflight(ctx context.Context, opts Options) error {
	if opts.CheckUnstagedChanges {
		dirty, err := r.repo.HasUnstagedChanges()
		if err != nil {
			return fmt.Errorf("failed to check working tree: %w", err)
		}
		if dirty {
			return errUnstagedChanges
		}
	}

	loc := r.cfg.Localization
	if loc.Title == "" {
		return nil
	}
	pending, err := r.forge.Search(ctx, platform.SearchQuery{
		Title:  loc.Title,
		Author: loc.Author,
		State:  metadata.StateOpen,
	})
	if err != nil {
		return fmt.Errorf("failed to search localization pull requests: %w", err)
	}
	if len(pending) > 0 {
		ids := make([]string, 0, len(pending))
		for _, p := range pending {
			ids = append(ids, fmt.Sprintf("#%d", p.ID))
		}
		return fmt.Errorf("%w: %s", errPendingLocalization, strings.Join(ids, ", "))
	}
	return nil
}

// Run performs the release for intent.
func (r *Releaser) Run(ctx context.Context, intent version.Intent, opts Options) (*Summary, error) {
	if err := r.Preflight(ctx, opts); err != nil {
		return nil, err
	}

	plan, err := r.Plan(intent)
	if err != nil {
		return nil, err
	}

	ok, err := r.prompter.Confirm(fmt.Sprintf("Start the release process for %s from %s?", plan.Next, plan.Branch.Name))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errAborted
	}

	r.log.Info(fmt.Sprintf("Releasing %s (%s -> %s)", plan.Intent, plan.Current, plan.Next))
	summary := &Summary{Plan: plan}

	switch {
	case plan.FromDevelop():
		err = r.releaseCandidateFromDevelop(ctx, plan, summary)
	case plan.Intent == version.IntentRC:
		err = r.prepareReleaseCandidate(ctx, plan, summary)
	default:
		err = r.preparePatch(ctx, plan, summary)
	}
	if err != nil {
		return summary, err
	}

	r.log.Info(fmt.Sprintf("Finished the release process for %s", plan.Next))
	return summary, nil
}

// GenerateChangelog prepends the section of next to the changelog file. The
// range starts at the last commit that touched the version file.
func (r *Releaser) GenerateChangelog(ctx context.Context, next version.Version) error {
	since, err := r.repo.LastCommitTouching(r.cfg.Project.VersionFile)
	if err != nil {
		return fmt.Errorf("failed to find the last version bump: %w", err)
	}

	builder := NewChangelogBuilder(r.repo, r.forge, r.repositoryURL())
	builder.SetLogger(r.log)
	builder.SetModulePrefix(r.cfg.Project.ModulePrefix)
	builder.SetLocalizationMarker(r.cfg.Localization.Title)

	body, err := builder.Build(ctx, since)
	if err != nil {
		return err
	}

	tmp := r.path(changelog.TemporaryFile)
	if err := os.WriteFile(tmp, []byte(body), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", changelog.TemporaryFile, err)
	}
	r.log.Debug("Written file: " + changelog.TemporaryFile)
	defer os.Remove(tmp) //nolint:errcheck // leftover file is harmless

	path := r.path(r.cfg.Project.ChangelogFile)
	current, err := os.ReadFile(path) // #nosec G304 - configured changelog file
	if err != nil {
		return fmt.Errorf("failed to read changelog: %w", err)
	}
	v := next.String()
	updated, err := changelog.Splice(string(current), changelog.VersionSection(v, r.treeURL(v), body))
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.cfg.Project.ChangelogFile, err)
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil { //nolint:gosec // tracked file
		return fmt.Errorf("failed to write changelog: %w", err)
	}
	return nil
}

func (r *Releaser) readVersion() (version.Version, error) {
	data, err := os.ReadFile(r.path(r.cfg.Project.VersionFile))
	if err != nil {
		return version.Version{}, fmt.Errorf("failed to read version file: %w", err)
	}
	v, err := version.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return version.Version{}, fmt.Errorf("%w: %w", errVersionFileMalformed, err)
	}
	return v, nil
}

func (r *Releaser) writeVersion(v version.Version) error {
	r.log.Debug(fmt.Sprintf("Writing %s to %s", v, r.cfg.Project.VersionFile))
	if err := os.WriteFile(r.path(r.cfg.Project.VersionFile), []byte(v.String()+"\n"), 0o644); err != nil { //nolint:gosec // tracked file
		return fmt.Errorf("failed to write version file: %w", err)
	}
	return nil
}

// runBumpSteps runs the commands that propagate a new version through the project.
func (r *Releaser) runBumpSteps(ctx context.Context) error {
	for _, step := range r.cfg.Steps.Bump {
		r.log.Info("Running " + security.SanitizeCommandLine(step))
		res, err := r.runner.Run(ctx, step, nil)
		if err != nil {
			if res != nil && res.Output != "" {
				r.log.Error(res.Output)
			}
			return fmt.Errorf("bump step %q failed: %w", step, err)
		}
		r.log.Debug(fmt.Sprintf("%s done in %s", step, timeutil.FormatDuration(res.Duration)))
	}
	return nil
}

// checkTests runs the test suite. On failure the working tree is restored,
// the output is shown and ErrLocalTestFailure is returned.
func (r *Releaser) checkTests(ctx context.Context, baseBranch, workBranch string) error {
	r.log.Info("Running specs")
	res, err := r.runner.Run(ctx, r.cfg.Steps.Test, r.cfg.Steps.TestEnv)
	if err == nil {
		r.log.Info("Specs passed in " + timeutil.FormatDuration(res.Duration))
		return nil
	}

	report := r.repo.Rollback(ctx, baseBranch, workBranch)
	if res != nil && res.Output != "" {
		r.log.Error(res.Output)
	}
	if !report.Success() {
		return fmt.Errorf("%w: %w (working tree could not be restored: %w)",
			errLocalTestFailure, err, report.FirstError())
	}
	return fmt.Errorf("%w: %w", errLocalTestFailure, err)
}

func (r *Releaser) repositoryURL() string {
	if r.cfg.Project.RepositoryURL != "" {
		return strings.TrimSuffix(r.cfg.Project.RepositoryURL, "/")
	}
	return r.forge.RepositoryURL()
}

func (r *Releaser) treeURL(ref string) string {
	return urlutil.TreeURL(r.repositoryURL(), ref)
}

func (r *Releaser) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(r.repo.Root(), name)
}
