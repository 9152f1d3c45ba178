package release

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sgaunet/release-toolbox/internal/labels"
	"github.com/sgaunet/release-toolbox/pkg/changelog"
	"github.com/sgaunet/release-toolbox/pkg/git"
	"github.com/sgaunet/release-toolbox/pkg/platform"
	"github.com/sgaunet/release-toolbox/pkg/version"
)

const (
	developBumpCommit   = "Bump develop to next release version"
	releaseBumpCommitRC = "Bump to %s version"
	patchCommit         = "Prepare %s release"
	releasePRTitle      = "Bump to v%s version"
	developPRTitle      = "Bump develop to next release version (%s)"

	stableBranchPause = "Create the %s branch in the translation platform, then confirm to continue. Continue?"

	releasePRBody = `#### :tophat: What? Why?

This PR prepares version of the %s branch, so we can publish the release once this is approved and merged.

#### Testing

All the tests should pass, except for some generators tests, that will fail because the gems and NPM packages have not
been actually published yet.

:hearts: Thank you!
`

	developPRBody = `#### :tophat: What? Why?

This PR prepares the next develop version.

#### Testing

All the tests should pass

:hearts: Thank you!
`
)

// releaseCandidateFromDevelop cuts the stable branch from develop, bumps
// develop to the next minor development version, then prepares the first
// release candidate on the stable branch.
func (r *Releaser) releaseCandidateFromDevelop(ctx context.Context, plan version.ReleasePlan, summary *Summary) error {
	develop := plan.Branch.Name

	if err := r.repo.Pull(ctx); err != nil {
		return fmt.Errorf("failed to pull %s: %w", develop, err)
	}
	if err := r.repo.CreateBranch(ctx, plan.TargetBranch); err != nil {
		return fmt.Errorf("failed to create %s: %w", plan.TargetBranch, err)
	}
	if err := r.repo.PushBranch(ctx, plan.TargetBranch); err != nil {
		return fmt.Errorf("failed to push %s: %w", plan.TargetBranch, err)
	}
	r.log.Info("Pushed " + plan.TargetBranch)

	ok, err := r.prompter.Confirm(fmt.Sprintf(stableBranchPause, plan.TargetBranch))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w after pushing %s", errAborted, plan.TargetBranch)
	}

	nextDev := version.NextDev(plan.Current)
	summary.DevelopVersion = &nextDev
	if err := r.bumpDevelop(ctx, plan, develop, nextDev, summary); err != nil {
		return err
	}

	if err := r.repo.SwitchBranch(ctx, plan.TargetBranch); err != nil {
		return fmt.Errorf("failed to switch to %s: %w", plan.TargetBranch, err)
	}
	return r.prepareReleaseCandidate(ctx, plan, summary)
}

func (r *Releaser) bumpDevelop(ctx context.Context, plan version.ReleasePlan, develop string,
	nextDev version.Version, summary *Summary,
) error {
	if err := r.repo.SwitchBranch(ctx, develop); err != nil {
		return fmt.Errorf("failed to switch to %s: %w", develop, err)
	}
	prepare := nextDev.PrepareBranch()
	if err := r.repo.CreateBranch(ctx, prepare); err != nil {
		return fmt.Errorf("failed to create %s: %w", prepare, err)
	}

	r.log.Info(fmt.Sprintf("Bumping %s to %s", develop, nextDev))
	if err := r.writeVersion(nextDev); err != nil {
		return err
	}
	if err := r.runBumpSteps(ctx); err != nil {
		return err
	}

	empty := changelog.EmptyChangelog(plan.Current.MinorLine(), r.repositoryURL())
	if err := os.WriteFile(r.path(r.cfg.Project.ChangelogFile), []byte(empty), 0o644); err != nil { //nolint:gosec // tracked file
		return fmt.Errorf("failed to write changelog: %w", err)
	}

	created, err := r.commitAndPropose(ctx, prepare, developBumpCommit, platform.CreateParams{
		Title: fmt.Sprintf(developPRTitle, nextDev),
		Body:  developPRBody,
		Base:  develop,
	})
	if err != nil {
		return err
	}
	summary.PullRequests = append(summary.PullRequests, created)
	return nil
}

// prepareReleaseCandidate bumps the stable branch to the next release
// candidate on a prepare branch.
func (r *Releaser) prepareReleaseCandidate(ctx context.Context, plan version.ReleasePlan, summary *Summary) error {
	prepare := plan.Next.PrepareBranch()
	if err := r.repo.CreateBranch(ctx, prepare); err != nil {
		return fmt.Errorf("failed to create %s: %w", prepare, err)
	}

	if err := r.bumpAndVerify(ctx, plan, plan.TargetBranch, prepare); err != nil {
		return err
	}

	created, err := r.commitAndPropose(ctx, prepare, fmt.Sprintf(releaseBumpCommitRC, plan.Next), r.releasePR(plan))
	if err != nil {
		return err
	}
	summary.PullRequests = append(summary.PullRequests, created)
	return nil
}

// preparePatch bumps the stable branch to the next final release. The
// prepare branch is only created once the tests passed.
func (r *Releaser) preparePatch(ctx context.Context, plan version.ReleasePlan, summary *Summary) error {
	branch := plan.Branch.Name
	if err := r.repo.Pull(ctx); err != nil {
		return fmt.Errorf("failed to pull %s: %w", branch, err)
	}

	if err := r.bumpAndVerify(ctx, plan, branch, ""); err != nil {
		return err
	}

	prepare := plan.Next.PrepareBranch()
	if err := r.repo.CreateBranch(ctx, prepare); err != nil {
		return fmt.Errorf("failed to create %s: %w", prepare, err)
	}
	created, err := r.commitAndPropose(ctx, prepare, fmt.Sprintf(patchCommit, plan.Next), r.releasePR(plan))
	if err != nil {
		return err
	}
	summary.PullRequests = append(summary.PullRequests, created)
	return nil
}

// bumpAndVerify writes the next version, runs the bump steps and the test
// suite, then generates the changelog.
func (r *Releaser) bumpAndVerify(ctx context.Context, plan version.ReleasePlan, baseBranch, workBranch string) error {
	if err := r.writeVersion(plan.Next); err != nil {
		return err
	}
	if err := r.runBumpSteps(ctx); err != nil {
		return err
	}
	if err := r.checkTests(ctx, baseBranch, workBranch); err != nil {
		return err
	}
	return r.GenerateChangelog(ctx, plan.Next)
}

func (r *Releaser) releasePR(plan version.ReleasePlan) platform.CreateParams {
	return platform.CreateParams{
		Title: fmt.Sprintf(releasePRTitle, plan.Next),
		Body:  fmt.Sprintf(releasePRBody, plan.TargetBranch),
		Base:  plan.TargetBranch,
	}
}

// commitAndPropose commits everything on branch, pushes it and opens a pull
// request labeled as internal.
func (r *Releaser) commitAndPropose(ctx context.Context, branch, message string, pr platform.CreateParams) (*platform.Created, error) {
	if _, err := r.repo.CommitAll(ctx, message); err != nil && !errors.Is(err, git.ErrNothingToCommit) {
		return nil, fmt.Errorf("failed to commit on %s: %w", branch, err)
	}
	if err := r.repo.PushBranch(ctx, branch); err != nil {
		return nil, fmt.Errorf("failed to push %s: %w", branch, err)
	}

	pr.Head = branch
	pr.Labels = []string{labels.TypeInternal}
	created, err := r.forge.Create(ctx, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to open pull request for %s: %w", branch, err)
	}
	r.log.Info(fmt.Sprintf("Pull request #%d opened: %s", created.ID, created.WebURL))
	return created, nil
}
