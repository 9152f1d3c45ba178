// Package changelog turns the commit history of a release into categorized
// release notes and splices them into the project changelog.
//
// Building happens in two steps. [Aggregator.Build] resolves the pull request
// of every commit through a metadata source, then [Classify] assigns each pull
// request to at most one [Category], collecting the rest as unsorted entries.
// [Renderer] produces the markdown and [Splice] inserts it under the
// changelog anchor.
package changelog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/release-toolbox/internal/labels"
	"github.com/sgaunet/release-toolbox/internal/logger"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
)

// DefaultLocalizationMarker identifies commits merged from the translation bot.
const DefaultLocalizationMarker = "New Crowdin updates"

var prIDPattern = regexp.MustCompile(`#(\d+)`)

// Entry is one pull request line of a category.
type Entry struct {
	Category Category
	// Modules are the sorted, deduplicated module names without prefix.
	Modules []string
	Title   string
	PRID    int
}

// Section is a category with its entries in commit order.
type Section struct {
	Category Category
	Entries  []Entry
}

// UnsortedEntry is a pull request that matched no category. Metadata is nil
// when the id could not be resolved.
type UnsortedEntry struct {
	Commit   string
	PRID     int
	Metadata *metadata.IssueMetadata
}

// Result is the outcome of classification: one section per category, in
// category order, and the unsorted leftovers in commit order.
type Result struct {
	Sections []Section
	Unsorted []UnsortedEntry
}

// Candidate is a commit with its pull request id and resolved metadata.
type Candidate struct {
	Commit   string
	PRID     int
	Metadata *metadata.IssueMetadata
}

// Aggregator resolves commit lines into classified changelog entries.
type Aggregator struct {
	source metadata.Source
	marker string
	log    *bullets.Logger
}

// NewAggregator creates an aggregator reading metadata from source. Wrap the
// source in a metadata.Cache to fetch each id once per run.
func NewAggregator(source metadata.Source) *Aggregator {
	return &Aggregator{
		source: source,
		marker: DefaultLocalizationMarker,
		log:    logger.NoLogger(),
	}
}

// SetLogger sets the logger for the aggregator.
func (a *Aggregator) SetLogger(log *bullets.Logger) {
	a.log = log
}

// SetLocalizationMarker changes the text identifying translation-bot commits.
func (a *Aggregator) SetLocalizationMarker(marker string) {
	if marker != "" {
		a.marker = marker
	}
}

// Build classifies one-line commits ("<sha> <subject>"), given oldest first.
//
// Translation-bot commits and commits without a "#<id>" token are dropped.
// A pull request referenced by several commits is kept at its first
// occurrence. Unresolvable ids end up unsorted; any other source error aborts.
func (a *Aggregator) Build(ctx context.Context, commits []string) (Result, error) {
	seen := make(map[int]bool)
	candidates := make([]Candidate, 0, len(commits))

	for _, commit := range commits {
		if strings.Contains(commit, a.marker) {
			a.log.Debug("Skipping localization commit: " + commit)
			continue
		}

		id, ok := ExtractPRID(commit)
		if !ok {
			a.log.Debug("No pull request id in commit: " + commit)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		candidate := Candidate{Commit: commit, PRID: id}
		meta, err := a.source.Fetch(ctx, id)
		switch {
		case err == nil:
			candidate.Metadata = &meta
		case errors.Is(err, metadata.ErrUnresolvable):
			a.log.Warn(fmt.Sprintf("Could not resolve #%d, adding it to %s", id, UnsortedTitle))
		default:
			return Result{}, fmt.Errorf("failed to fetch metadata for #%d: %w", id, err)
		}
		candidates = append(candidates, candidate)
	}

	result := Classify(candidates)
	a.log.Debug(fmt.Sprintf("Classified %d pull requests, %d unsorted", len(candidates), len(result.Unsorted)))
	return result, nil
}

// ExtractPRID returns the id of the last "#<digits>" token of a commit line.
func ExtractPRID(commit string) (int, bool) {
	matches := prIDPattern.FindAllStringSubmatch(commit, -1)
	if len(matches) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Classify assigns candidates to categories. Each category sweeps the
// candidates in order and a pull request is emitted in at most one category.
// Candidates never emitted, unresolved ones included, become unsorted entries.
func Classify(candidates []Candidate) Result {
	handled := make(map[int]bool)
	result := Result{Sections: make([]Section, 0, len(Categories))}

	for _, category := range Categories {
		section := Section{Category: category}
		for _, c := range candidates {
			if c.Metadata == nil || handled[c.PRID] || !c.Metadata.HasType(category.Label) {
				continue
			}
			handled[c.PRID] = true
			section.Entries = append(section.Entries, Entry{
				Category: category,
				Modules:  moduleNames(c.Metadata.Modules),
				Title:    c.Metadata.Title,
				PRID:     c.PRID,
			})
		}
		result.Sections = append(result.Sections, section)
	}

	for _, c := range candidates {
		if handled[c.PRID] {
			continue
		}
		result.Unsorted = append(result.Unsorted, UnsortedEntry(c))
	}

	return result
}

func moduleNames(moduleLabels []string) []string {
	names := make([]string, 0, len(moduleLabels))
	for _, l := range moduleLabels {
		if name := labels.ModuleName(l); name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}
