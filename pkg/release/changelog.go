package release

import (
	"context"
	"fmt"

	"github.com/sgaunet/bullets"

	"github.com/sgaunet/release-toolbox/internal/logger"
	"github.com/sgaunet/release-toolbox/pkg/changelog"
	"github.com/sgaunet/release-toolbox/pkg/commits"
	"github.com/sgaunet/release-toolbox/pkg/metadata"
)

// ChangelogBuilder renders the release notes of a commit range.
type ChangelogBuilder struct {
	history      commits.History
	source       metadata.Source
	repoURL      string
	modulePrefix string
	marker       string
	log          *bullets.Logger
}

// NewChangelogBuilder creates a builder reading commits from history and
// pull request metadata from source. Links point into repoURL.
func NewChangelogBuilder(history commits.History, source metadata.Source, repoURL string) *ChangelogBuilder {
	return &ChangelogBuilder{
		history:      history,
		source:       source,
		repoURL:      repoURL,
		modulePrefix: changelog.DefaultModulePrefix,
		marker:       changelog.DefaultLocalizationMarker,
		log:          logger.NoLogger(),
	}
}

// SetLogger sets the logger for the builder.
func (b *ChangelogBuilder) SetLogger(log *bullets.Logger) {
	b.log = log
}

// SetModulePrefix sets the prefix prepended to module names.
func (b *ChangelogBuilder) SetModulePrefix(prefix string) {
	b.modulePrefix = prefix
}

// SetLocalizationMarker sets the commit title fragment of translation commits.
func (b *ChangelogBuilder) SetLocalizationMarker(marker string) {
	if marker != "" {
		b.marker = marker
	}
}

// Build renders the changelog body for the commits of since..HEAD. Metadata
// is fetched at most once per pull request.
func (b *ChangelogBuilder) Build(ctx context.Context, since string) (string, error) {
	retriever := commits.NewRetriever(b.history)
	retriever.SetLogger(b.log)
	lines, err := retriever.LinesSince(since)
	if err != nil {
		return "", err
	}
	b.log.Info(fmt.Sprintf("Processing %d commits since %s", len(lines), shortSHA(since)))

	cache := metadata.NewCache(b.source)
	cache.SetLogger(b.log)

	aggregator := changelog.NewAggregator(cache)
	aggregator.SetLogger(b.log)
	aggregator.SetLocalizationMarker(b.marker)

	result, err := aggregator.Build(ctx, lines)
	if err != nil {
		return "", fmt.Errorf("failed to build changelog: %w", err)
	}
	if n := len(result.Unsorted); n > 0 {
		b.log.Warn(fmt.Sprintf("%d pull requests could not be categorized", n))
	}

	renderer := changelog.NewRenderer(b.repoURL)
	renderer.ModulePrefix = b.modulePrefix
	return renderer.Render(result), nil
}

func shortSHA(sha string) string {
	if len(sha) > commits.ShortHashLength {
		return sha[:commits.ShortHashLength]
	}
	return sha
}
