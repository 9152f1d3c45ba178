// Package security keeps forge credentials out of logs, error messages and
// the command lines echoed while a release runs.
package security

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables holding the forge credentials.
const (
	GitHubTokenEnv = "GITHUB_TOKEN"
	GitLabTokenEnv = "GITLAB_TOKEN"
)

const (
	// tokens shorter than this are fully redacted instead of showing a suffix.
	minTokenLengthForPartialMask = 8
	maskShowChars                = 4

	maskEmpty    = "[empty]"
	maskRedacted = "[redacted]"
)

// SecureToken holds a credential. Every fmt verb prints a masked form such as
// [token:****3456]; only Value returns the secret.
type SecureToken struct {
	value string
}

// NewSecureToken wraps token.
func NewSecureToken(token string) SecureToken {
	return SecureToken{value: token}
}

// TokenFromEnv returns the first non-blank variable among names.
func TokenFromEnv(names ...string) SecureToken {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return SecureToken{value: v}
		}
	}
	return SecureToken{}
}

func (t SecureToken) String() string {
	switch {
	case t.value == "":
		return maskEmpty
	case len(t.value) < minTokenLengthForPartialMask:
		return maskRedacted
	default:
		return fmt.Sprintf("[token:****%s]", t.value[len(t.value)-maskShowChars:])
	}
}

// GoString keeps %#v masked as well.
func (t SecureToken) GoString() string {
	return t.String()
}

// Value returns the raw credential. Pass it to an API client or a command
// template, never to a logger.
func (t SecureToken) Value() string {
	return t.value
}

// IsEmpty reports whether no credential is set.
func (t SecureToken) IsEmpty() bool {
	return t.value == ""
}
