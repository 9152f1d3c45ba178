package changelog

import (
	"fmt"
	"strings"

	"github.com/sgaunet/release-toolbox/internal/urlutil"
)

// Anchor is the header after which new version sections are inserted.
const Anchor = "# Changelog\n\n"

// TemporaryFile is where the generated body of the current run is written.
const TemporaryFile = "temporary_changelog.md"

// Splice inserts section right after the first anchor of changelog.
func Splice(changelog, section string) (string, error) {
	idx := strings.Index(changelog, Anchor)
	if idx < 0 {
		return "", errAnchorNotFound
	}
	at := idx + len(Anchor)
	return changelog[:at] + section + changelog[at:], nil
}

// VersionSection builds the "## [<version>](<url>)" block holding body.
func VersionSection(version, url, body string) string {
	return fmt.Sprintf("## [%s](%s)\n\n%s\n", version, url, body)
}

// EmptyChangelog is the changelog of a fresh development line, pointing to
// the changelog of the release branch previousLine ("MAJOR.MINOR") was cut to.
func EmptyChangelog(previousLine, repoURL string) string {
	branch := fmt.Sprintf("release/%s-stable", previousLine)
	return Anchor +
		fmt.Sprintf("## [Unreleased](%s)\n\n", urlutil.TreeURL(repoURL, "HEAD")) +
		nothing + "\n\n" +
		"...\n\n" +
		"## Previous versions\n\n" +
		fmt.Sprintf("Please check [%s-stable](%s) for previous changes.\n",
			previousLine, urlutil.BlobURL(repoURL, branch, "CHANGELOG.md"))
}
