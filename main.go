// Package main provides the entry point for the release-toolbox CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sgaunet/bullets"
	"github.com/spf13/cobra"

	"github.com/sgaunet/release-toolbox/internal/logger"
	"github.com/sgaunet/release-toolbox/internal/security"
	"github.com/sgaunet/release-toolbox/pkg/config"
	"github.com/sgaunet/release-toolbox/pkg/git"
	"github.com/sgaunet/release-toolbox/pkg/platform"
)

var (
	logLevel   string
	configPath string
	log        = logger.NoLogger()
)

var rootCmd = &cobra.Command{
	Use:   "release-toolbox",
	Short: "Release, changelog and backport automation for GitHub and GitLab projects",
	Long: `release-toolbox automates the release lifecycle of a multi-module project:
it computes the next version, prepares release branches and pull requests,
generates categorized changelogs from merged pull requests and backports
fixes to the maintained release lines.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if _, err := logger.ParseLevel(logLevel); err != nil {
			return err
		}
		log = logger.NewLogger(logLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info",
		"Set log level ("+strings.Join(logger.Levels, ", ")+")")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to the configuration file (default .release-toolbox.yml, then ~/.config/release-toolbox/config.yml)")

	rootCmd.AddCommand(
		newReleaseCmd(),
		newNextVersionCmd(),
		newChangelogCmd(),
		newBackportCmd(),
		newBackportsReportCmd(),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", security.SanitizeError(err))
		os.Exit(1)
	}
}

// workspace bundles what every command needs: the working copy, the
// configuration and, when required, the forge of the origin remote.
type workspace struct {
	repo     *git.Repository
	cfg      *config.Config
	provider platform.Provider
}

func openWorkspace(ctx context.Context, withForge bool) (*workspace, error) {
	repo, err := git.OpenRepository(".")
	if err != nil {
		return nil, err
	}
	repo.SetLogger(log)

	cfg, err := loadConfig(repo.Root())
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.Debug("Configuration loaded from " + cfg.Path)
	}

	ws := &workspace{repo: repo, cfg: cfg}
	if !withForge {
		return ws, nil
	}

	ws.provider, err = openForge(ctx, repo, log)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func loadConfig(root string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load(root)
}

//nolint:ireturn // the forge is chosen at runtime
func openForge(ctx context.Context, repo *git.Repository, log *bullets.Logger) (platform.Provider, error) {
	p, err := repo.DetectPlatform()
	if err != nil {
		return nil, fmt.Errorf("failed to detect platform: %w", err)
	}

	provider, err := platform.NewProvider(p, log)
	if err != nil {
		return nil, err
	}

	remote, err := repo.GetRemoteURL(git.DefaultRemote)
	if err != nil {
		return nil, err
	}
	if err := provider.Initialize(ctx, remote); err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", provider.PlatformName(), err)
	}
	log.Debug(fmt.Sprintf("Platform detected: %s (%s)", provider.PlatformName(), provider.RepositoryURL()))
	return provider, nil
}

func repositoryURL(ws *workspace) string {
	if ws.cfg.Project.RepositoryURL != "" {
		return ws.cfg.Project.RepositoryURL
	}
	return ws.provider.RepositoryURL()
}
