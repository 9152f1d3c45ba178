package backport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/sgaunet/bullets"

	"github.com/sgaunet/release-toolbox/internal/logger"
	"github.com/sgaunet/release-toolbox/internal/security"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
	"github.com/sgaunet/release-toolbox/pkg/platform"
	"github.com/sgaunet/release-toolbox/pkg/runner"
)

// DefaultCommand invokes the external backport tool for one target version.
const DefaultCommand = "decidim-backporter --github_token={{.Token}} --pull_request_id={{.PullRequestID}} " +
	"--version_number={{.Version}} --exit_with_unstaged_changes={{.ExitWithUnstagedChanges}} --with-console=false"

// Forge is the part of the forge the backporter reads from and writes to.
type Forge interface {
	metadata.Source
	RelatedIssues(ctx context.Context, id int) ([]metadata.Reference, error)
	Create(ctx context.Context, params platform.CreateParams) (*platform.Created, error)
}

// CommandRunner runs an external command line.
type CommandRunner interface {
	Run(ctx context.Context, command string, env map[string]string) (*runner.Result, error)
}

// Options configures a Backporter.
type Options struct {
	// Command is a text/template command line rendered per target version with
	// .PullRequestID, .Version, .Token and .ExitWithUnstagedChanges.
	Command                 string
	Token                   security.SecureToken
	ExitWithUnstagedChanges bool
	// Maintainers are assigned to tracking issues of failed attempts.
	Maintainers []string
}

// Outcome records what happened for one target version.
type Outcome struct {
	Version string
	Action  Action
	// Existing is the backport that made the version skip.
	Existing *metadata.Reference
	// Err wraps ErrBackportAttemptFailed when the attempt failed.
	Err error
	// TrackingIssue is set when a tracking issue was opened for a failed attempt.
	TrackingIssue *platform.Created
	// TrackingErr is set when the tracking issue could not be created.
	TrackingErr error
}

// Failed reports whether the backport attempt failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Backporter drives the external backport command for every release line a
// merged fix targets and opens a tracking issue for each failed attempt.
type Backporter struct {
	forge  Forge
	runner CommandRunner
	opts   Options
	tmpl   *template.Template
	log    *bullets.Logger
}

type commandData struct {
	PullRequestID           int
	Version                 string
	Token                   string
	ExitWithUnstagedChanges bool
}

// NewBackporter creates a backporter. An empty command falls back to DefaultCommand.
func NewBackporter(forge Forge, run CommandRunner, opts Options) (*Backporter, error) {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	tmpl, err := template.New("backport").Option("missingkey=error").Parse(opts.Command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backport command: %w", err)
	}
	return &Backporter{
		forge:  forge,
		runner: run,
		opts:   opts,
		tmpl:   tmpl,
		log:    logger.NoLogger(),
	}, nil
}

// SetLogger sets the logger for the backporter.
func (b *Backporter) SetLogger(log *bullets.Logger) {
	b.log = log
}

// Run backports pull request prID. Precondition failures abort before any
// version is processed. A failed attempt for one version does not stop the
// others; the returned outcomes follow the target version order.
func (b *Backporter) Run(ctx context.Context, prID int) ([]Outcome, error) {
	pr, err := b.forge.Fetch(ctx, prID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request #%d: %w", prID, err)
	}

	related, err := b.forge.RelatedIssues(ctx, prID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues related to #%d: %w", prID, err)
	}

	decisions, err := Plan(pr, related)
	if err != nil {
		return nil, err
	}
	if len(decisions) == 0 {
		b.log.Info(fmt.Sprintf("Pull request #%d has no release labels, nothing to backport", prID))
		return []Outcome{}, nil
	}

	outcomes := make([]Outcome, 0, len(decisions))
	for _, d := range decisions {
		outcome := Outcome{Version: d.Version, Action: d.Action, Existing: d.Existing}
		if d.Action == ActionSkip {
			b.log.Info(fmt.Sprintf("v%s: already backported in #%d", d.Version, d.Existing.ID))
			outcomes = append(outcomes, outcome)
			continue
		}

		err := b.attempt(ctx, pr.ID, d.Version)
		switch {
		case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
			return outcomes, fmt.Errorf("backport of v%s interrupted: %w", d.Version, err)
		case err != nil:
			b.log.Warn(fmt.Sprintf("v%s: %v", d.Version, err))
			outcome.Err = err
			outcome.TrackingIssue, outcome.TrackingErr = b.openTrackingIssue(ctx, pr, d.Version)
		default:
			b.log.Info(fmt.Sprintf("v%s: backport created", d.Version))
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (b *Backporter) attempt(ctx context.Context, prID int, version string) error {
	var cmd bytes.Buffer
	err := b.tmpl.Execute(&cmd, commandData{
		PullRequestID:           prID,
		Version:                 version,
		Token:                   b.opts.Token.Value(),
		ExitWithUnstagedChanges: b.opts.ExitWithUnstagedChanges,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to render command: %w", errBackportAttemptFailed, err)
	}

	if _, err := b.runner.Run(ctx, cmd.String(), nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w for v%s: %w", errBackportAttemptFailed, version, err)
	}
	return nil
}

func (b *Backporter) openTrackingIssue(ctx context.Context, pr metadata.IssueMetadata, version string) (*platform.Created, error) {
	created, err := b.forge.Create(ctx, TrackingIssue(pr, version, b.opts.Maintainers))
	if err != nil {
		b.log.Error(fmt.Sprintf("v%s: failed to open tracking issue: %v", version, err))
		return nil, fmt.Errorf("failed to open tracking issue: %w", err)
	}
	b.log.Info(fmt.Sprintf("v%s: tracking issue #%d opened", version, created.ID))
	return created, nil
}

// TrackingIssue builds the issue opened when the backport of pr to version
// failed. It carries the labels of pr and is assigned to the maintainers.
func TrackingIssue(pr metadata.IssueMetadata, version string, maintainers []string) platform.CreateParams {
	return platform.CreateParams{
		Title: fmt.Sprintf("Fail: automatic backport of %q to v%s", pr.Title, version),
		Body: fmt.Sprintf("The automatic backport of #%d to v%s failed.\n\n"+
			"Please do the backport manually.", pr.ID, version),
		Labels:    append([]string{}, pr.Labels...),
		Assignees: append([]string{}, maintainers...),
	}
}
