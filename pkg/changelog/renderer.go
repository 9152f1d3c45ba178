package changelog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sgaunet/release-toolbox/internal/urlutil"
)

// DefaultModulePrefix is prepended to module names in entry lines.
const DefaultModulePrefix = "decidim-"

const (
	nothing    = "Nothing."
	unresolved = "unresolved"
)

// Renderer formats a classification result as markdown.
type Renderer struct {
	// RepositoryURL is the browsable repository URL used for pull request links.
	RepositoryURL string
	// ModulePrefix is prepended to every module name.
	ModulePrefix string
}

// NewRenderer creates a renderer linking to repoURL with the default module prefix.
func NewRenderer(repoURL string) *Renderer {
	return &Renderer{RepositoryURL: repoURL, ModulePrefix: DefaultModulePrefix}
}

// Render returns the changelog body: one "### <Category>" block per category,
// "Nothing." for empty ones, then an Unsorted block when there are leftovers.
func (r *Renderer) Render(result Result) string {
	var lines []string

	for _, section := range result.Sections {
		lines = append(lines, "### "+section.Category.Title, "")
		if len(section.Entries) == 0 {
			lines = append(lines, nothing)
		}
		for _, entry := range section.Entries {
			lines = append(lines, r.entryLine(entry))
		}
		lines = append(lines, "")
	}

	if len(result.Unsorted) > 0 {
		lines = append(lines, "### "+UnsortedTitle, "")
		for _, entry := range result.Unsorted {
			lines = append(lines, r.unsortedLine(entry))
		}
	}

	return strings.Join(lines, "\n")
}

func (r *Renderer) entryLine(entry Entry) string {
	if entry.Category.SkipModules || len(entry.Modules) == 0 {
		return fmt.Sprintf("- %s %s", entry.Title, r.link(entry.PRID))
	}

	bolded := make([]string, len(entry.Modules))
	for i, m := range entry.Modules {
		bolded[i] = "**" + r.ModulePrefix + m + "**"
	}
	return fmt.Sprintf("- %s: %s %s", strings.Join(bolded, ", "), entry.Title, r.link(entry.PRID))
}

func (r *Renderer) unsortedLine(entry UnsortedEntry) string {
	raw := unresolved
	if entry.Metadata != nil {
		if data, err := json.Marshal(entry.Metadata); err == nil {
			raw = string(data)
		}
	}
	return fmt.Sprintf("- %s %s || %s", entry.Commit, r.link(entry.PRID), raw)
}

func (r *Renderer) link(id int) string {
	return fmt.Sprintf("[#%d](%s)", id, urlutil.PullRequestURL(r.RepositoryURL, id))
}
