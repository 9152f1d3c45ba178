package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v69/github"
)

// GetIssue returns the issue or pull request with the given number.
// Returns ErrIssueNotFound when the number does not exist.
func (c *Client) GetIssue(ctx context.Context, number int) (*IssueSummary, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	c.log.Debug(fmt.Sprintf("Fetching GitHub issue #%d", number))
	issue, resp, err := c.client.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone) {
			return nil, fmt.Errorf("%w: #%d", errIssueNotFound, number)
		}
		return nil, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}

	return toSummary(issue), nil
}

// ListCrossReferences returns the issues and pull requests that mention the
// given issue, in timeline order.
func (c *Client) ListCrossReferences(ctx context.Context, number int) ([]*IssueSummary, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	c.log.Debug(fmt.Sprintf("Listing cross references of #%d", number))
	var result []*IssueSummary
	opts := &github.ListOptions{PerPage: maxResultsPerPage}
	for {
		events, resp, err := c.client.Issues.ListIssueTimeline(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list timeline of #%d: %w", number, err)
		}

		for _, event := range events {
			if event.GetEvent() != eventCrossReferenced {
				continue
			}
			if source := event.GetSource(); source != nil && source.Issue != nil {
				result = append(result, toSummary(source.Issue))
			}
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.log.Debug(fmt.Sprintf("Cross references retrieved, count: %d", len(result)))
	return result, nil
}

// SearchIssues runs an issue search. The query is scoped to the configured
// repository automatically.
func (c *Client) SearchIssues(ctx context.Context, query string) ([]*IssueSummary, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	q := fmt.Sprintf("repo:%s/%s %s", c.owner, c.repo, query)
	c.log.Debug("Searching GitHub issues: " + q)

	var result []*IssueSummary
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: maxResultsPerPage}}
	for {
		found, resp, err := c.client.Search.Issues(ctx, q, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search issues: %w", err)
		}

		for _, issue := range found.Issues {
			result = append(result, toSummary(issue))
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.log.Debug(fmt.Sprintf("Search returned %d results", len(result)))
	return result, nil
}

// CreateIssue creates an issue with labels and assignees.
func (c *Client) CreateIssue(
	ctx context.Context,
	title, body string,
	labels, assignees []string,
) (*IssueSummary, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	c.log.Debug("Creating GitHub issue: " + title)
	req := &github.IssueRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
	}
	if len(labels) > 0 {
		req.Labels = &labels
	}
	if len(assignees) > 0 {
		req.Assignees = &assignees
	}

	issue, _, err := c.client.Issues.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Issue created - number: %d, URL: %s", issue.GetNumber(), issue.GetHTMLURL()))
	return toSummary(issue), nil
}

// CreatePullRequest creates a new pull request, then adds assignees and labels.
func (c *Client) CreatePullRequest(
	ctx context.Context,
	head, base, title, body string,
	assignees, labels []string,
) (*IssueSummary, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	c.log.Debug(fmt.Sprintf("Creating pull request from %s to %s", head, base))

	newPR := &github.NewPullRequest{
		Title: github.Ptr(title),
		Head:  github.Ptr(head),
		Base:  github.Ptr(base),
		Body:  github.Ptr(body),
	}

	pr, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, newPR)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	if len(assignees) > 0 {
		_, _, err = c.client.Issues.AddAssignees(ctx, c.owner, c.repo, pr.GetNumber(), assignees)
		if err != nil {
			return nil, fmt.Errorf("failed to add assignees: %w", err)
		}
	}

	if len(labels) > 0 {
		_, _, err = c.client.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, pr.GetNumber(), labels)
		if err != nil {
			return nil, fmt.Errorf("failed to add labels: %w", err)
		}
	}

	c.log.Debug(fmt.Sprintf("Pull request created - number: %d, URL: %s", pr.GetNumber(), pr.GetHTMLURL()))
	return &IssueSummary{
		Number:        pr.GetNumber(),
		Title:         pr.GetTitle(),
		State:         pr.GetState(),
		IsPullRequest: true,
		Labels:        labels,
		HTMLURL:       pr.GetHTMLURL(),
	}, nil
}

// toSummary converts a go-github issue into an IssueSummary.
func toSummary(issue *github.Issue) *IssueSummary {
	summary := &IssueSummary{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		State:         issue.GetState(),
		IsPullRequest: issue.IsPullRequest(),
		HTMLURL:       issue.GetHTMLURL(),
	}

	for _, label := range issue.Labels {
		summary.Labels = append(summary.Labels, label.GetName())
	}

	if links := issue.PullRequestLinks; links != nil && links.MergedAt != nil {
		mergedAt := links.MergedAt.Time
		summary.MergedAt = &mergedAt
	}

	return summary
}
