package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

// forgeRedactions run in order. Known token formats go first so the generic
// rule below does not swallow their prefixes.
var forgeRedactions = []redaction{
	{regexp.MustCompile(`glpat-[a-zA-Z0-9_-]{6,}`), "[gitlab-token-redacted]"},
	{regexp.MustCompile(`gh[opsur]_[a-zA-Z0-9]{20,}`), "[github-token-redacted]"},
	{regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{20,}`), "[github-token-redacted]"},
	{regexp.MustCompile(`(?i)authorization:\s*(?:bearer|basic|token)\s+[a-zA-Z0-9+/=_-]{10,}`), "Authorization: [redacted]"},
}

var (
	// opaqueTokenRegex catches long base64-like strings of unknown origin.
	opaqueTokenRegex = regexp.MustCompile(`\b[A-Za-z0-9+/=]{40,200}\b`)

	// credentialURLRegex matches the user:password part of a remote URL.
	credentialURLRegex = regexp.MustCompile(`(https?://)[^/\s:@]+:[^/\s@]+@`)

	// secretFlagRegex matches --github_token=X, --token X, -password "X".
	secretFlagRegex = regexp.MustCompile(
		`(?i)(--?[a-z_-]*(?:token|password|secret)[a-z_-]*(?:=|\s+))([^\s'"]+|'[^']*'|"[^"]*")`)

	errSanitized = errors.New("sanitized error")

	sensitiveKeys = []string{
		"token", "password", "secret", "api_key", "apikey",
		"auth", "credential", "authorization",
	}
)

// SanitizeString redacts forge tokens, authorization headers, URL credentials
// and long opaque tokens from s. It is safe for concurrent use.
func SanitizeString(s string) string {
	s = credentialURLRegex.ReplaceAllString(s, "${1}[redacted]@")
	for _, r := range forgeRedactions {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return opaqueTokenRegex.ReplaceAllString(s, "[token-redacted]")
}

// SanitizeCommandLine redacts the values of secret-bearing flags, then applies
// SanitizeString. Every external command goes through it before being logged.
func SanitizeCommandLine(cmd string) string {
	cmd = secretFlagRegex.ReplaceAllString(cmd, "${1}"+maskRedacted)
	return SanitizeString(cmd)
}

// SanitizeError returns an error carrying the sanitized message of err, or nil.
// The original chain is dropped: callers must test with errors.Is before
// sanitizing.
func SanitizeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", errSanitized, SanitizeString(err.Error()))
}

// MaskSSHKeyPath shortens a key path to ~/.ssh/<name>, or to its base name
// when it does not live under a .ssh directory.
func MaskSSHKeyPath(path string) string {
	if path == "" {
		return ""
	}
	if _, after, found := strings.Cut(path, "/.ssh/"); found {
		return "~/.ssh/" + filepath.Base(after)
	}
	return filepath.Base(path)
}

// SanitizeMap returns a copy of m where values under credential-like keys are
// redacted and the remaining strings pass through SanitizeString.
func SanitizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		if isSensitiveKey(k) {
			out[k] = maskRedacted
			continue
		}
		if s, ok := v.(string); ok {
			v = SanitizeString(s)
		}
		out[k] = v
	}
	return out
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}
