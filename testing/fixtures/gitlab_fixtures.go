package fixtures

import (
	"strconv"

	"github.com/sgaunet/release-toolbox/pkg/gitlab"
)

// GitLabMergedFix returns the GitLab view of the merged fix merge request.
func GitLabMergedFix() *gitlab.IssueSummary {
	return &gitlab.IssueSummary{
		IID:            FixPRID,
		Title:          "Fix proposals filter",
		State:          "merged",
		Description:    "Fixes the proposals filter",
		IsMergeRequest: true,
		MergedAt:       &MergedAt,
		Labels:         []string{"type: fix", "module: proposals", "release: v0.27"},
		WebURL:         "https://gitlab.com/group/project/-/merge_requests/12345",
	}
}

// GitLabIssue returns a plain opened GitLab issue.
func GitLabIssue(iid int, title string) *gitlab.IssueSummary {
	return &gitlab.IssueSummary{
		IID:    iid,
		Title:  title,
		State:  "opened",
		Labels: []string{"type: fix"},
		WebURL: "https://gitlab.com/group/project/-/issues/" + itoa(iid),
	}
}

// GitLabBackport returns a GitLab backport merge request whose description
// references the merge request it backports.
func GitLabBackport(iid, of int, version string, merged bool) *gitlab.IssueSummary {
	mr := &gitlab.IssueSummary{
		IID:            iid,
		Title:          "Backport 'Fix proposals filter' to v" + version,
		State:          "opened",
		Description:    "Backports !" + itoa(of),
		IsMergeRequest: true,
	}
	if merged {
		mr.State = "merged"
		mr.MergedAt = &MergedAt
	}
	return mr
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
