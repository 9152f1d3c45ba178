package backport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sgaunet/release-toolbox/internal/labels"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
	"github.com/sgaunet/release-toolbox/pkg/platform"
)

// ReportEntry is a merged fix together with the issues referencing it.
type ReportEntry struct {
	ID      int
	Title   string
	Related []metadata.Reference
}

// Searcher finds merged fixes and their related issues on the forge.
type Searcher interface {
	Search(ctx context.Context, query platform.SearchQuery) ([]metadata.Reference, error)
	RelatedIssues(ctx context.Context, id int) ([]metadata.Reference, error)
}

// Collect gathers the fixes merged since the given date with their related issues.
func Collect(ctx context.Context, s Searcher, since time.Time) ([]ReportEntry, error) {
	fixes, err := s.Search(ctx, platform.SearchQuery{
		Labels:      []string{labels.TypeFix},
		State:       metadata.StateMerged,
		MergedSince: &since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search merged fixes: %w", err)
	}

	entries := make([]ReportEntry, 0, len(fixes))
	for _, fix := range fixes {
		related, err := s.RelatedIssues(ctx, fix.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch issues related to #%d: %w", fix.ID, err)
		}
		entries = append(entries, ReportEntry{ID: fix.ID, Title: fix.Title, Related: related})
	}
	return entries, nil
}

// Report renders entries as a semicolon separated CSV with the backport status
// for the last release line and the one before it. Entries whose two backports
// are both merged are left out. Each status cell reads "state|id".
func Report(entries []ReportEntry, lastLine string) (string, error) {
	penultimate, err := previousLine(lastLine)
	if err != nil {
		return "", err
	}
	last := "v" + lastLine
	prev := "v" + penultimate

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write([]string{"ID", "Title", "Backport " + last, "Backport " + prev}); err != nil {
		return "", fmt.Errorf("failed to write report header: %w", err)
	}
	for _, entry := range entries {
		latestPR, latestOK := FindExistingBackport(entry.Related, last)
		prevPR, prevOK := FindExistingBackport(entry.Related, prev)
		if latestOK && prevOK && latestPR.State == metadata.StateMerged && prevPR.State == metadata.StateMerged {
			continue
		}
		row := []string{
			strconv.Itoa(entry.ID),
			entry.Title,
			statusCell(latestPR, latestOK),
			statusCell(prevPR, prevOK),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write report line for #%d: %w", entry.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return buf.String(), nil
}

func statusCell(ref metadata.Reference, ok bool) string {
	if !ok {
		return ""
	}
	return ref.State + "|" + strconv.Itoa(ref.ID)
}

func previousLine(line string) (string, error) {
	major, minor, found := strings.Cut(line, ".")
	if !found {
		return "", fmt.Errorf("%w: %q", errInvalidReleaseLine, line)
	}
	if _, err := strconv.Atoi(major); err != nil {
		return "", fmt.Errorf("%w: %q", errInvalidReleaseLine, line)
	}
	n, err := strconv.Atoi(minor)
	if err != nil || n < 1 {
		return "", fmt.Errorf("%w: %q", errInvalidReleaseLine, line)
	}
	return major + "." + strconv.Itoa(n-1), nil
}
