package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/release-toolbox/internal/logger"
	"github.com/sgaunet/release-toolbox/internal/security"
	"github.com/sgaunet/release-toolbox/internal/urlutil"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// NewClient creates a new GitLab client authenticated with GITLAB_TOKEN.
// GITLAB_URL overrides the API endpoint for self-hosted instances.
func NewClient() (*Client, error) {
	token := security.TokenFromEnv(security.GitLabTokenEnv)
	if token.IsEmpty() {
		return nil, errTokenRequired
	}

	return NewClientWithBaseURL(token.Value(), os.Getenv("GITLAB_URL"))
}

// NewClientWithBaseURL creates a client for the given token and API base URL.
// An empty baseURL selects gitlab.com.
func NewClientWithBaseURL(token, baseURL string) (*Client, error) {
	var opts []gitlab.ClientOptionFunc
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &Client{
		client: client,
		log:    logger.NoLogger(),
	}, nil
}

// SetLogger sets the logger for the GitLab client.
func (c *Client) SetLogger(logger *bullets.Logger) {
	c.log = logger
	c.log.Debug("GitLab client logger configured")
}

// SetProject sets the project id or path without contacting the API.
func (c *Client) SetProject(pid string) {
	c.projectID = pid
	c.projectPath = pid
}

// ProjectPath returns the namespace/project path.
func (c *Client) ProjectPath() string {
	return c.projectPath
}

// SetProjectFromURL sets the project from a git remote URL.
// Supports both HTTPS and SSH formats:
//   - https://gitlab.com/group/project.git
//   - git@gitlab.com:group/subgroup/project.git
func (c *Client) SetProjectFromURL(ctx context.Context, remoteURL string) error {
	projectPath := extractProjectPath(remoteURL)
	if projectPath == "" {
		return fmt.Errorf("%w: %q", errInvalidURLFormat, remoteURL)
	}

	c.log.Debug("Setting GitLab project: " + projectPath)

	project, _, err := c.client.Projects.GetProject(projectPath, nil, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to get project information: %w", err)
	}

	c.projectID = strconv.FormatInt(int64(project.ID), 10)
	c.projectPath = projectPath
	c.log.Debug("GitLab project set, ID: " + c.projectID)
	return nil
}

// extractProjectPath extracts the namespace/project path from a git URL.
func extractProjectPath(remoteURL string) string {
	_, path := urlutil.HostAndPath(remoteURL)
	if len(strings.Split(path, "/")) < minURLParts {
		return ""
	}
	return path
}

func (c *Client) checkProject() error {
	if c.projectID == "" {
		return errProjectNotSet
	}
	return nil
}

// GetMergeRequest returns the merge request with the given IID.
// Returns ErrNotFound when it does not exist.
func (c *Client) GetMergeRequest(ctx context.Context, iid int) (*IssueSummary, error) {
	if err := c.checkProject(); err != nil {
		return nil, err
	}

	c.log.Debug(fmt.Sprintf("Fetching GitLab merge request !%d", iid))
	mr, resp, err := c.client.MergeRequests.GetMergeRequest(c.projectID, iid, nil, gitlab.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf("%w: !%d", errNotFound, iid)
		}
		return nil, fmt.Errorf("failed to get merge request !%d: %w", iid, err)
	}

	return &IssueSummary{
		IID:            int(mr.IID),
		Title:          mr.Title,
		State:          mr.State,
		Description:    mr.Description,
		IsMergeRequest: true,
		MergedAt:       mr.MergedAt,
		Labels:         []string(mr.Labels),
		WebURL:         mr.WebURL,
	}, nil
}

// GetIssue returns the issue with the given IID.
// Returns ErrNotFound when it does not exist.
func (c *Client) GetIssue(ctx context.Context, iid int) (*IssueSummary, error) {
	if err := c.checkProject(); err != nil {
		return nil, err
	}

	c.log.Debug(fmt.Sprintf("Fetching GitLab issue #%d", iid))
	issue, resp, err := c.client.Issues.GetIssue(c.projectID, iid, gitlab.WithContext(ctx))
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf("%w: #%d", errNotFound, iid)
		}
		return nil, fmt.Errorf("failed to get issue #%d: %w", iid, err)
	}

	return &IssueSummary{
		IID:         int(issue.IID),
		Title:       issue.Title,
		State:       issue.State,
		Description: issue.Description,
		Labels:      []string(issue.Labels),
		WebURL:      issue.WebURL,
	}, nil
}

// ListMergeRequests lists the project merge requests matching query, following pagination.
func (c *Client) ListMergeRequests(ctx context.Context, query MergeRequestQuery) ([]*IssueSummary, error) {
	if err := c.checkProject(); err != nil {
		return nil, err
	}

	opts := &gitlab.ListProjectMergeRequestsOptions{
		ListOptions: gitlab.ListOptions{PerPage: maxResultsPerPage},
	}
	if query.State != "" {
		opts.State = gitlab.Ptr(query.State)
	}
	if query.Search != "" {
		opts.Search = gitlab.Ptr(query.Search)
	}
	if query.AuthorUsername != "" {
		opts.AuthorUsername = gitlab.Ptr(query.AuthorUsername)
	}
	if len(query.Labels) > 0 {
		labels := query.Labels
		opts.Labels = (*gitlab.LabelOptions)(&labels)
	}
	if query.UpdatedAfter != nil {
		opts.UpdatedAfter = query.UpdatedAfter
	}

	c.log.Debug(fmt.Sprintf("Listing GitLab merge requests (search=%q, state=%q)", query.Search, query.State))
	var result []*IssueSummary
	for {
		mrs, resp, err := c.client.MergeRequests.ListProjectMergeRequests(c.projectID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list merge requests: %w", err)
		}

		for _, mr := range mrs {
			result = append(result, &IssueSummary{
				IID:            int(mr.IID),
				Title:          mr.Title,
				State:          mr.State,
				Description:    mr.Description,
				IsMergeRequest: true,
				MergedAt:       mr.MergedAt,
				Labels:         []string(mr.Labels),
				WebURL:         mr.WebURL,
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.log.Debug(fmt.Sprintf("Merge requests retrieved, count: %d", len(result)))
	return result, nil
}

// CreateIssue creates an issue assigned to the given usernames.
func (c *Client) CreateIssue(
	ctx context.Context,
	title, description string,
	labels, assignees []string,
) (*IssueSummary, error) {
	if err := c.checkProject(); err != nil {
		return nil, err
	}

	assigneeIDs, err := c.resolveUserIDs(ctx, assignees)
	if err != nil {
		return nil, err
	}

	c.log.Debug("Creating GitLab issue: " + title)
	opts := &gitlab.CreateIssueOptions{
		Title:       &title,
		Description: &description,
		Labels:      (*gitlab.LabelOptions)(&labels),
	}
	if len(assigneeIDs) > 0 {
		opts.AssigneeIDs = &assigneeIDs
	}

	issue, _, err := c.client.Issues.CreateIssue(c.projectID, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Issue created - IID: %d, URL: %s", issue.IID, issue.WebURL))
	return &IssueSummary{
		IID:    int(issue.IID),
		Title:  issue.Title,
		State:  issue.State,
		Labels: []string(issue.Labels),
		WebURL: issue.WebURL,
	}, nil
}

// CreateMergeRequest creates a new merge request with assignees and labels.
func (c *Client) CreateMergeRequest(
	ctx context.Context,
	sourceBranch, targetBranch, title, description string,
	assignees, labels []string,
) (*IssueSummary, error) {
	if err := c.checkProject(); err != nil {
		return nil, err
	}

	assigneeIDs, err := c.resolveUserIDs(ctx, assignees)
	if err != nil {
		return nil, err
	}

	c.log.Debug(fmt.Sprintf("Creating merge request from %s to %s", sourceBranch, targetBranch))
	createOptions := &gitlab.CreateMergeRequestOptions{
		Title:        &title,
		Description:  &description,
		SourceBranch: &sourceBranch,
		TargetBranch: &targetBranch,
		Labels:       (*gitlab.LabelOptions)(&labels),
	}
	if len(assigneeIDs) > 0 {
		createOptions.AssigneeIDs = &assigneeIDs
	}

	mr, _, err := c.client.MergeRequests.CreateMergeRequest(c.projectID, createOptions, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Merge request created - IID: %d, URL: %s", mr.IID, mr.WebURL))
	return &IssueSummary{
		IID:            int(mr.IID),
		Title:          mr.Title,
		State:          mr.State,
		IsMergeRequest: true,
		Labels:         labels,
		WebURL:         mr.WebURL,
	}, nil
}

// resolveUserIDs looks up user ids by username.
func (c *Client) resolveUserIDs(ctx context.Context, usernames []string) ([]int, error) {
	ids := make([]int, 0, len(usernames))
	for _, username := range usernames {
		name := username
		users, _, err := c.client.Users.ListUsers(&gitlab.ListUsersOptions{
			Username: &name,
		}, gitlab.WithContext(ctx))
		if err != nil || len(users) == 0 {
			return nil, fmt.Errorf("%w: %s", errUserNotFound, username)
		}
		ids = append(ids, users[0].ID)
	}
	return ids, nil
}

func isNotFound(resp *gitlab.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound
}
