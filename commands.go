package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgaunet/release-toolbox/internal/security"
	"github.com/sgaunet/release-toolbox/internal/timeutil"
	"github.com/sgaunet/release-toolbox/internal/ui"
	"github.com/sgaunet/release-toolbox/pkg/backport"
	"github.com/sgaunet/release-toolbox/pkg/changelog"
	"github.com/sgaunet/release-toolbox/pkg/git"
	"github.com/sgaunet/release-toolbox/pkg/platform"
	"github.com/sgaunet/release-toolbox/pkg/release"
	"github.com/sgaunet/release-toolbox/pkg/runner"
	"github.com/sgaunet/release-toolbox/pkg/version"
)

var (
	_ release.Repository     = (*git.Repository)(nil)
	_ release.Forge          = platform.Provider(nil)
	_ backport.Forge         = platform.Provider(nil)
	_ backport.CommandRunner = (*runner.Runner)(nil)
)

var errTokenRequired = errors.New("GITHUB_TOKEN or GITLAB_TOKEN environment variable is required")

func newReleaseCmd() *cobra.Command {
	var (
		releaseType      string
		exitWithUnstaged bool
		assumeYes        bool
	)

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Prepare a release candidate, minor or patch release",
		Long: `Bump the version, run the bump steps and the test suite, update the
changelog and open the pull request preparing the release.

A release candidate started from the development branch also cuts the stable
branch and opens a pull request bumping the development branch.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			intent, err := version.ParseIntent(releaseType)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			start := time.Now()

			ws, err := openWorkspace(ctx, true)
			if err != nil {
				return err
			}

			run := runner.New(ws.repo.Root())
			run.SetLogger(log)

			r := release.NewReleaser(ws.repo, run, ws.provider, ui.NewConfirmer(assumeYes), ws.cfg)
			r.SetLogger(log)

			summary, err := r.Run(ctx, intent, release.Options{CheckUnstagedChanges: exitWithUnstaged})
			if err != nil {
				return err
			}

			for _, pr := range summary.PullRequests {
				log.Info(fmt.Sprintf("Review and merge #%d: %s", pr.ID, pr.WebURL))
			}
			log.Info(fmt.Sprintf("Release %s prepared in %s", summary.Plan.Next, timeutil.Since(start)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&releaseType, "type", "t", "", "Release type (rc, minor, patch)")
	cmd.Flags().BoolVar(&exitWithUnstaged, "exit-with-unstaged-changes", false,
		"Abort when the working tree has unstaged changes")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newNextVersionCmd() *cobra.Command {
	var releaseType string

	cmd := &cobra.Command{
		Use:   "next-version",
		Short: "Print the version a release would produce without changing anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			intent, err := version.ParseIntent(releaseType)
			if err != nil {
				return err
			}
			ws, err := openWorkspace(cmd.Context(), false)
			if err != nil {
				return err
			}

			r := release.NewReleaser(ws.repo, nil, nil, nil, ws.cfg)
			plan, err := r.Plan(intent)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s (%s)\n", plan.Current, plan.Next, plan.TargetBranch)
			if plan.FromDevelop() {
				fmt.Fprintf(out, "%s -> %s (%s)\n", plan.Branch.Name, version.NextDev(plan.Current), plan.Branch.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&releaseType, "type", "t", "", "Release type (rc, minor, patch)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newChangelogCmd() *cobra.Command {
	var (
		since  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate the changelog of the commits since a revision",
		Long: `Generate the categorized changelog of the commits since the given revision,
by default the last commit that changed the version file, and write it to
temporary_changelog.md (use --output - for the standard output).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ws, err := openWorkspace(ctx, true)
			if err != nil {
				return err
			}

			if since == "" {
				since, err = ws.repo.LastCommitTouching(ws.cfg.Project.VersionFile)
				if err != nil {
					return fmt.Errorf("failed to find the last version bump: %w", err)
				}
			}

			builder := release.NewChangelogBuilder(ws.repo, ws.provider, repositoryURL(ws))
			builder.SetLogger(log)
			builder.SetModulePrefix(ws.cfg.Project.ModulePrefix)
			builder.SetLocalizationMarker(ws.cfg.Localization.Title)

			body, err := builder.Build(ctx, since)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
				return err
			}
			if err := os.WriteFile(output, []byte(body), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			log.Info("Written file: " + output)
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Revision starting the range (default: last version bump)")
	cmd.Flags().StringVarP(&output, "output", "o", changelog.TemporaryFile, "Output file, - for stdout")
	return cmd
}

func newBackportCmd() *cobra.Command {
	var (
		pullRequestID    int
		exitWithUnstaged bool
	)

	cmd := &cobra.Command{
		Use:   "backport",
		Short: "Backport a merged fix to every release line it is labeled for",
		Long: `Run the backport command for each "release: vX.Y" label of a merged fix
that has no backport yet. A failed attempt opens a tracking issue assigned to
the configured maintainers.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ws, err := openWorkspace(ctx, true)
			if err != nil {
				return err
			}

			token := security.TokenFromEnv(security.GitHubTokenEnv, security.GitLabTokenEnv)
			if token.IsEmpty() {
				return errTokenRequired
			}

			run := runner.New(ws.repo.Root())
			run.SetLogger(log)
			run.SetOutput(os.Stdout)

			b, err := backport.NewBackporter(ws.provider, run, backport.Options{
				Command:                 ws.cfg.Backport.Command,
				Token:                   token,
				ExitWithUnstagedChanges: exitWithUnstaged,
				Maintainers:             ws.cfg.Backport.Maintainers,
			})
			if err != nil {
				return err
			}
			b.SetLogger(log)

			outcomes, err := b.Run(ctx, pullRequestID)
			if err != nil {
				return err
			}
			failed := 0
			for _, o := range outcomes {
				if o.Failed() {
					failed++
				}
			}
			if failed > 0 {
				log.Warn(fmt.Sprintf("%d of %d backports failed, see the tracking issues", failed, len(outcomes)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&pullRequestID, "pull-request-id", "p", 0, "ID of the merged pull request to backport")
	cmd.Flags().BoolVar(&exitWithUnstaged, "exit-with-unstaged-changes", false,
		"Make the backport command abort on unstaged changes")
	_ = cmd.MarkFlagRequired("pull-request-id")
	return cmd
}

func newBackportsReportCmd() *cobra.Command {
	var (
		lastVersion string
		sinceDate   string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "backports-report",
		Short: "Report the backport status of the fixes merged since a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			since, err := timeutil.ParseSince(sinceDate, time.Now())
			if err != nil {
				return err
			}
			log.Debug("Collecting fixes merged since " + since.Format(timeutil.DateLayout))
			ctx := cmd.Context()
			ws, err := openWorkspace(ctx, true)
			if err != nil {
				return err
			}

			entries, err := backport.Collect(ctx, ws.provider, since)
			if err != nil {
				return err
			}
			report, err := backport.Report(entries, lastVersion)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), report)
				return err
			}
			if err := os.WriteFile(output, []byte(report), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			log.Info(fmt.Sprintf("Report of %d fixes written to %s", len(entries), output))
			return nil
		},
	}

	cmd.Flags().StringVar(&lastVersion, "last-version", "", "Last release line, e.g. 0.28")
	cmd.Flags().StringVar(&sinceDate, "since", "", "Only fixes merged since this date (YYYY-MM-DD or e.g. \"4 weeks ago\")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default stdout)")
	_ = cmd.MarkFlagRequired("last-version")
	_ = cmd.MarkFlagRequired("since")
	return cmd
}
