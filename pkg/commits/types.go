package commits

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// ShortHashLength is the abbreviation used in one-line renderings.
const ShortHashLength = 7

// Commit is a commit of the release range as the changelog sees it.
type Commit struct {
	Hash    string
	Subject string
	// Merge is set for commits with more than one parent.
	Merge bool
}

// ParseCommit keeps the hash and the subject line of c.
func ParseCommit(c *object.Commit) Commit {
	return Commit{
		Hash:    c.Hash.String(),
		Subject: Subject(c.Message),
		Merge:   c.NumParents() > 1,
	}
}

// Subject returns the first line of a commit message, trimmed.
func Subject(message string) string {
	first, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(first)
}

// ShortHash returns the abbreviated hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= ShortHashLength {
		return c.Hash
	}
	return c.Hash[:ShortHashLength]
}

// OneLine renders the commit like `git log --oneline`.
func (c Commit) OneLine() string {
	return c.ShortHash() + " " + c.Subject
}

// OneLines renders commits with OneLine. Commits with a blank subject are skipped.
func OneLines(commits []Commit) []string {
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		if c.Subject == "" {
			continue
		}
		lines = append(lines, c.OneLine())
	}
	return lines
}
