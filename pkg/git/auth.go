package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/sgaunet/release-toolbox/internal/security"
	cryptossh "golang.org/x/crypto/ssh"
)

const sshUser = "git"

// sshKeyCandidates are tried in order under ~/.ssh.
var sshKeyCandidates = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// auth returns the transport credentials for the origin remote: a forge token
// over HTTPS, or an SSH key (falling back to the agent) over SSH.
//
//nolint:ireturn // go-git takes the AuthMethod interface.
func (r *Repository) auth() (transport.AuthMethod, error) {
	remoteURL, err := r.GetRemoteURL(DefaultRemote)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(remoteURL, "http://") || strings.HasPrefix(remoteURL, "https://") {
		return r.httpsAuth(remoteURL), nil
	}
	return r.sshAuth()
}

// httpsAuth uses GITLAB_TOKEN or GITHUB_TOKEN depending on the host.
// It returns nil when no token is set, which lets go-git try anonymously.
func (r *Repository) httpsAuth(remoteURL string) transport.AuthMethod {
	platform, _ := PlatformFromURL(remoteURL)

	var username string
	var token security.SecureToken
	switch platform {
	case PlatformGitLab:
		username = "oauth2"
		token = security.TokenFromEnv(security.GitLabTokenEnv)
	default:
		username = "x-access-token"
		token = security.TokenFromEnv(security.GitHubTokenEnv)
	}

	if token.IsEmpty() {
		r.log.Debug("No token found for HTTPS remote, using anonymous access")
		return nil
	}

	security.DebugAuth(r.log, "HTTPS", map[string]string{
		"url":   remoteURL,
		"user":  username,
		"token": token.String(),
	})
	return &http.BasicAuth{Username: username, Password: token.Value()}
}

func (r *Repository) sshAuth() (transport.AuthMethod, error) {
	home, err := os.UserHomeDir()
	if err == nil {
		for _, name := range sshKeyCandidates {
			keyFile := filepath.Join(home, ".ssh", name)
			if _, statErr := os.Stat(keyFile); statErr != nil {
				continue
			}
			security.DebugSSHKey(r.log, keyFile, false)

			keys, keyErr := gitssh.NewPublicKeysFromFile(sshUser, keyFile, "")
			if keyErr != nil {
				var passphraseErr *cryptossh.PassphraseMissingError
				if errors.As(keyErr, &passphraseErr) {
					r.log.Debug("SSH key is passphrase protected, skipping: " + security.MaskSSHKeyPath(keyFile))
				}
				continue
			}
			security.DebugSSHKey(r.log, keyFile, true)
			return keys, nil
		}
	}

	agent, err := gitssh.NewSSHAgentAuth(sshUser)
	if err != nil {
		return nil, fmt.Errorf("failed to configure SSH authentication: %w", err)
	}
	security.DebugAuth(r.log, "SSH", map[string]string{"method": "agent"})
	return agent, nil
}
