package platform

import (
	"fmt"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/release-toolbox/pkg/git"
	ghclient "github.com/sgaunet/release-toolbox/pkg/github"
	"github.com/sgaunet/release-toolbox/pkg/gitlab"
)

// NewProvider creates the appropriate Provider implementation based on the detected platform.
//
//nolint:ireturn // Factory function must return interface to enable platform abstraction.
func NewProvider(p git.Platform, logger *bullets.Logger) (Provider, error) {
	switch p {
	case git.PlatformGitLab:
		client, err := gitlab.NewClient()
		if err != nil {
			return nil, fmt.Errorf("failed to create GitLab client: %w", err)
		}
		client.SetLogger(logger)
		return NewGitLabAdapter(client, logger), nil

	case git.PlatformGitHub:
		client, err := ghclient.NewClient()
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub client: %w", err)
		}
		client.SetLogger(logger)
		return NewGitHubAdapter(client, logger), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}
}
