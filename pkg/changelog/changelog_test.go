package changelog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sgaunet/release-toolbox/pkg/changelog"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
	"github.com/sgaunet/release-toolbox/testing/fixtures"
	"github.com/sgaunet/release-toolbox/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoURL = "https://github.com/decidim/decidim"

func pr(id int, title string, labelNames ...string) metadata.IssueMetadata {
	return metadata.Normalize(metadata.Raw{
		ID:            id,
		Title:         title,
		State:         metadata.StateClosed,
		IsPullRequest: true,
		MergedAt:      &fixtures.MergedAt,
		Labels:        labelNames,
	})
}

func sectionIDs(t *testing.T, result changelog.Result, title string) []int {
	t.Helper()
	for _, s := range result.Sections {
		if s.Category.Title != title {
			continue
		}
		ids := []int{}
		for _, e := range s.Entries {
			ids = append(ids, e.PRID)
		}
		return ids
	}
	t.Fatalf("no section %q", title)
	return nil
}

func TestBuild_BasicScenario(t *testing.T) {
	source := mocks.NewMetadataSource(
		pr(1, "Add X", "type: feature"),
		pr(2, "Fix Y", "type: fix"),
	)
	agg := changelog.NewAggregator(source)

	result, err := agg.Build(context.Background(), []string{
		"aaaaaaa Add X (#1)",
		"bbbbbbb Fix Y (#2)",
		"ccccccc New Crowdin updates (#3)",
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1}, sectionIDs(t, result, "Added"))
	assert.Equal(t, []int{2}, sectionIDs(t, result, "Fixed"))
	assert.Empty(t, sectionIDs(t, result, "Changed"))
	assert.Empty(t, result.Unsorted)
	assert.Equal(t, 0, source.FetchCountFor(3), "localization commits are never fetched")
}

func TestBuild_FullHistory(t *testing.T) {
	source := mocks.NewMetadataSource(
		fixtures.MergedFix(),
		fixtures.MergedFeature(),
		fixtures.MergedInternal(),
	)
	agg := changelog.NewAggregator(metadata.NewCache(source))

	result, err := agg.Build(context.Background(), fixtures.ChangelogHistory())
	require.NoError(t, err)

	assert.Equal(t, []int{fixtures.FeaturePRID}, sectionIDs(t, result, "Added"))
	assert.Equal(t, []int{fixtures.FixPRID}, sectionIDs(t, result, "Fixed"))
	assert.Equal(t, []int{fixtures.InternalPRID}, sectionIDs(t, result, "Internal"))

	require.Len(t, result.Unsorted, 1)
	assert.Equal(t, 99999, result.Unsorted[0].PRID)
	assert.Nil(t, result.Unsorted[0].Metadata)
	assert.Equal(t, "f6a7b8c Mystery change (#99999)", result.Unsorted[0].Commit)

	assert.Equal(t, 1, source.FetchCountFor(fixtures.FixPRID), "repeated ids are fetched once")
	assert.Equal(t, 0, source.FetchCountFor(12350))
	assert.Equal(t, 4, source.GetCallCount("Fetch"))
}

func TestBuild_FirstMatchingCategoryWins(t *testing.T) {
	source := mocks.NewMetadataSource(
		pr(10, "Feature and fix", "type: fix", "type: feature"),
		pr(11, "Tooling", "target: developer-experience", "type: internal"),
	)

	result, err := changelog.NewAggregator(source).Build(context.Background(), []string{
		"1111111 Feature and fix (#10)",
		"2222222 Tooling (#11)",
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10}, sectionIDs(t, result, "Added"))
	assert.Empty(t, sectionIDs(t, result, "Fixed"))
	assert.Equal(t, []int{11}, sectionIDs(t, result, "Developer improvements"))
	assert.Empty(t, sectionIDs(t, result, "Internal"))
}

func TestBuild_UntypedGoesToUnsorted(t *testing.T) {
	source := mocks.NewMetadataSource(pr(20, "Untyped", "module: core"))

	result, err := changelog.NewAggregator(source).Build(context.Background(), []string{"3333333 Untyped (#20)"})
	require.NoError(t, err)
	require.Len(t, result.Unsorted, 1)
	require.NotNil(t, result.Unsorted[0].Metadata)
	assert.Equal(t, "Untyped", result.Unsorted[0].Metadata.Title)
}

func TestBuild_SourceErrorAborts(t *testing.T) {
	source := mocks.NewMetadataSource()
	boom := errors.New("rate limited")
	source.Errors[1] = boom

	_, err := changelog.NewAggregator(source).Build(context.Background(), []string{"4444444 Something (#1)"})
	require.ErrorIs(t, err, boom)
}

func TestBuild_CustomLocalizationMarker(t *testing.T) {
	source := mocks.NewMetadataSource(pr(1, "Add X", "type: feature"))
	agg := changelog.NewAggregator(source)
	agg.SetLocalizationMarker("Translations sync")

	result, err := agg.Build(context.Background(), []string{
		"5555555 Translations sync (#2)",
		"6666666 Add X (#1)",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, source.FetchCountFor(2))
	assert.Equal(t, []int{1}, sectionIDs(t, result, "Added"))
}

func TestExtractPRID(t *testing.T) {
	tests := []struct {
		commit string
		want   int
		ok     bool
	}{
		{"a1b2c3d Fix proposals filter (#12345)", 12345, true},
		{"a1b2c3d Backport 'Fix #12' (#34)", 34, true},
		{"a1b2c3d Typo in README", 0, false},
		{"a1b2c3d Use #hash", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.commit, func(t *testing.T) {
			got, ok := changelog.ExtractPRID(tt.commit)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ExtractPRID(%q) = (%d, %v), want (%d, %v)", tt.commit, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRender(t *testing.T) {
	result := changelog.Classify([]changelog.Candidate{
		{Commit: "aaaaaaa Add X (#1)", PRID: 1, Metadata: ptr(pr(1, "Add X", "type: feature", "module: proposals", "module: admin"))},
		{Commit: "bbbbbbb Tooling (#2)", PRID: 2, Metadata: ptr(pr(2, "Tooling", "target: developer-experience", "module: core"))},
		{Commit: "ccccccc Fix Y (#3)", PRID: 3, Metadata: ptr(pr(3, "Fix Y", "type: fix"))},
		{Commit: "ddddddd Mystery (#4)", PRID: 4},
	})

	got := changelog.NewRenderer(repoURL).Render(result)

	want := strings.Join([]string{
		"### Added",
		"",
		"- **decidim-admin**, **decidim-proposals**: Add X [#1](https://github.com/decidim/decidim/pull/1)",
		"",
		"### Changed",
		"",
		"Nothing.",
		"",
		"### Fixed",
		"",
		"- Fix Y [#3](https://github.com/decidim/decidim/pull/3)",
		"",
		"### Removed",
		"",
		"Nothing.",
		"",
		"### Developer improvements",
		"",
		"- Tooling [#2](https://github.com/decidim/decidim/pull/2)",
		"",
		"### Internal",
		"",
		"Nothing.",
		"",
		"### Unsorted",
		"",
		"- ddddddd Mystery (#4) [#4](https://github.com/decidim/decidim/pull/4) || unresolved",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRender_UnsortedWithMetadata(t *testing.T) {
	result := changelog.Classify([]changelog.Candidate{
		{Commit: "eeeeeee Untyped (#5)", PRID: 5, Metadata: ptr(pr(5, "Untyped"))},
	})

	renderer := changelog.NewRenderer("https://gitlab.com/group/project")
	renderer.ModulePrefix = ""
	got := renderer.Render(result)

	assert.Contains(t, got, "- eeeeeee Untyped (#5) [#5](https://gitlab.com/group/project/-/merge_requests/5) || {")
	assert.Contains(t, got, `"title":"Untyped"`)
}

func TestSplice(t *testing.T) {
	existing := "# Changelog\n\n## [0.27.0](url)\n\nOld\n"
	section := changelog.VersionSection("0.28.0", "https://github.com/decidim/decidim/tree/v0.28.0", "### Added\n\nNothing.")

	got, err := changelog.Splice(existing, section)
	require.NoError(t, err)
	assert.Equal(t,
		"# Changelog\n\n## [0.28.0](https://github.com/decidim/decidim/tree/v0.28.0)\n\n### Added\n\nNothing.\n## [0.27.0](url)\n\nOld\n",
		got)

	_, err = changelog.Splice("No anchor here", section)
	require.ErrorIs(t, err, changelog.ErrAnchorNotFound)
}

func TestEmptyChangelog(t *testing.T) {
	got := changelog.EmptyChangelog("0.28", repoURL)

	assert.True(t, strings.HasPrefix(got, changelog.Anchor))
	assert.Contains(t, got, "## [Unreleased](https://github.com/decidim/decidim/tree/HEAD)")
	assert.Contains(t, got,
		"Please check [0.28-stable](https://github.com/decidim/decidim/blob/release/0.28-stable/CHANGELOG.md) for previous changes.")
}

func ptr(m metadata.IssueMetadata) *metadata.IssueMetadata {
	return &m
}
