// Package urlutil converts git remote URLs into browsable repository URLs and
// builds the links used in changelogs and release notes.
//
// It handles three remote formats:
//   - HTTPS: https://github.com/owner/repo.git
//   - SSH colon: git@github.com:owner/repo.git
//   - SSH protocol: ssh://git@github.com/owner/repo.git
package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// minColonParts is the number of parts of an SSH colon URL split on ":".
const minColonParts = 2

// HostAndPath splits a git remote URL into its host and repository path.
// The .git suffix is removed. Returns empty strings when the URL is not
// recognized.
//
// Examples:
//
//	HostAndPath("git@github.com:owner/repo.git")            → "github.com", "owner/repo"
//	HostAndPath("https://gitlab.com/group/sub/project.git") → "gitlab.com", "group/sub/project"
func HostAndPath(remote string) (string, string) {
	remote = strings.TrimSuffix(strings.TrimSpace(remote), ".git")

	if strings.HasPrefix(remote, "git@") {
		parts := strings.SplitN(strings.TrimPrefix(remote, "git@"), ":", minColonParts)
		if len(parts) < minColonParts || parts[0] == "" || parts[1] == "" {
			return "", ""
		}
		return parts[0], strings.Trim(parts[1], "/")
	}

	u, err := url.Parse(remote)
	if err != nil || u.Host == "" {
		return "", ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", ""
	}
	return u.Hostname(), path
}

// ExtractPathComponents returns the last componentCount components of the
// repository path of a remote URL, or "" if there are not enough of them.
//
// Examples:
//
//	ExtractPathComponents("git@github.com:owner/repo", 2)                 → "owner/repo"
//	ExtractPathComponents("https://gitlab.com/group/subgroup/project", 2) → "subgroup/project"
func ExtractPathComponents(remote string, componentCount int) string {
	_, path := HostAndPath(remote)
	parts := strings.Split(path, "/")
	if path == "" || len(parts) < componentCount {
		return ""
	}
	return strings.Join(parts[len(parts)-componentCount:], "/")
}

// WebURL returns the https URL of the repository behind a git remote, or ""
// when the remote cannot be parsed.
func WebURL(remote string) string {
	host, path := HostAndPath(remote)
	if host == "" {
		return ""
	}
	return fmt.Sprintf("https://%s/%s", host, path)
}

// PullRequestURL returns the link to a pull request (GitHub) or merge request
// (GitLab) given the repository web URL.
func PullRequestURL(repoURL string, id int) string {
	repoURL = strings.TrimSuffix(repoURL, "/")
	if isGitLab(repoURL) {
		return fmt.Sprintf("%s/-/merge_requests/%d", repoURL, id)
	}
	return fmt.Sprintf("%s/pull/%d", repoURL, id)
}

// TreeURL returns the link to a ref in the repository browser.
func TreeURL(repoURL, ref string) string {
	repoURL = strings.TrimSuffix(repoURL, "/")
	if isGitLab(repoURL) {
		return fmt.Sprintf("%s/-/tree/%s", repoURL, ref)
	}
	return fmt.Sprintf("%s/tree/%s", repoURL, ref)
}

// BlobURL returns the link to a file at a ref in the repository browser.
func BlobURL(repoURL, ref, file string) string {
	repoURL = strings.TrimSuffix(repoURL, "/")
	if isGitLab(repoURL) {
		return fmt.Sprintf("%s/-/blob/%s/%s", repoURL, ref, file)
	}
	return fmt.Sprintf("%s/blob/%s/%s", repoURL, ref, file)
}

func isGitLab(repoURL string) bool {
	u, err := url.Parse(repoURL)
	if err != nil {
		return false
	}
	return strings.Contains(u.Hostname(), "gitlab")
}
