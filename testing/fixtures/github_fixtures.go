package fixtures

import (
	"github.com/sgaunet/release-toolbox/pkg/github"
)

// GitHubMergedFix returns the GitHub view of the merged fix pull request.
func GitHubMergedFix() *github.IssueSummary {
	return &github.IssueSummary{
		Number:        FixPRID,
		Title:         "Fix proposals filter",
		State:         "closed",
		IsPullRequest: true,
		MergedAt:      &MergedAt,
		Labels:        []string{"type: fix", "module: proposals", "release: v0.27"},
		HTMLURL:       "https://github.com/decidim/decidim/pull/12345",
	}
}

// GitHubIssue returns a plain GitHub issue.
func GitHubIssue(number int, title string) *github.IssueSummary {
	return &github.IssueSummary{
		Number:  number,
		Title:   title,
		State:   "open",
		Labels:  []string{"type: fix"},
		HTMLURL: "https://github.com/decidim/decidim/issues/" + itoa(number),
	}
}

// GitHubBackport returns a GitHub backport pull request of the merged fix.
func GitHubBackport(number int, version string, merged bool) *github.IssueSummary {
	pr := &github.IssueSummary{
		Number:        number,
		Title:         "Backport 'Fix proposals filter' to v" + version,
		State:         "open",
		IsPullRequest: true,
		Labels:        []string{"type: fix", "release: v" + version},
	}
	if merged {
		pr.State = "closed"
		pr.MergedAt = &MergedAt
	}
	return pr
}
