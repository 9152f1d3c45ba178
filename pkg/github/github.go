// Package github provides GitHub API client operations for the release tooling:
// reading issue and pull request metadata, cross references, searches and
// creating issues and pull requests.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/bullets"
	"github.com/sgaunet/release-toolbox/internal/logger"
	"github.com/sgaunet/release-toolbox/internal/security"
	"github.com/sgaunet/release-toolbox/internal/urlutil"
	"golang.org/x/oauth2"
)

// NewClient creates a new GitHub client authenticated with GITHUB_TOKEN.
func NewClient() (*Client, error) {
	token := security.TokenFromEnv(security.GitHubTokenEnv)
	if token.IsEmpty() {
		return nil, errTokenRequired
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token.Value()},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		client: github.NewClient(tc),
		log:    logger.NoLogger(),
	}, nil
}

// NewClientWithBaseURL creates a client talking to baseURL with the given HTTP
// client. Used for GitHub Enterprise and tests.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	client := github.NewClient(httpClient)
	client.BaseURL = u

	return &Client{
		client: client,
		log:    logger.NoLogger(),
	}, nil
}

// SetLogger sets the logger for the GitHub client.
func (c *Client) SetLogger(logger *bullets.Logger) {
	c.log = logger
	c.log.Debug("GitHub client logger configured")
}

// SetRepository sets the repository without contacting the API.
func (c *Client) SetRepository(owner, repo string) {
	c.owner = owner
	c.repo = repo
}

// Owner returns the repository owner.
func (c *Client) Owner() string { return c.owner }

// Repo returns the repository name.
func (c *Client) Repo() string { return c.repo }

// SetRepositoryFromURL sets the repository from a git remote URL and checks
// that it exists.
func (c *Client) SetRepositoryFromURL(ctx context.Context, remoteURL string) error {
	owner, repo, err := ParseRepositoryURL(remoteURL)
	if err != nil {
		return err
	}
	c.SetRepository(owner, repo)

	c.log.Debug(fmt.Sprintf("Setting GitHub repository: %s/%s", c.owner, c.repo))
	if _, _, err := c.client.Repositories.Get(ctx, c.owner, c.repo); err != nil {
		return fmt.Errorf("failed to get repository information: %w", err)
	}

	c.log.Debug("GitHub repository set successfully")
	return nil
}

// ParseRepositoryURL extracts owner and repository name from a git remote URL.
// Supports both HTTPS and SSH formats:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - ssh://git@github.com/owner/repo.git
func ParseRepositoryURL(remoteURL string) (string, string, error) {
	_, path := urlutil.HostAndPath(remoteURL)
	parts := strings.Split(path, "/")
	if path == "" || len(parts) != minURLParts || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", errInvalidURLFormat, remoteURL)
	}
	return parts[0], parts[1], nil
}

func (c *Client) checkRepository() error {
	if c.owner == "" || c.repo == "" {
		return errRepositoryNotSet
	}
	return nil
}
