package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	ghpkg "github.com/sgaunet/release-toolbox/pkg/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupServer starts an httptest server and returns a client bound to owner/repo.
func setupServer(t *testing.T) (*http.ServeMux, *ghpkg.Client) {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := ghpkg.NewClientWithBaseURL(server.Client(), server.URL)
	require.NoError(t, err)
	client.SetRepository("decidim", "decidim")
	return mux, client
}

func TestNewClient_RequiresToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	_, err := ghpkg.NewClient()
	require.ErrorIs(t, err, ghpkg.ErrTokenRequired)
}

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"https with .git", "https://github.com/decidim/decidim.git", "decidim", "decidim", false},
		{"https without .git", "https://github.com/owner/repo", "owner", "repo", false},
		{"ssh", "git@github.com:owner/repo.git", "owner", "repo", false},
		{"ssh protocol", "ssh://git@github.com/owner/repo.git", "owner", "repo", false},
		{"only owner", "https://github.com/owner", "", "", true},
		{"too deep", "https://github.com/a/b/c", "", "", true},
		{"not a url", "not-a-valid-url", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ghpkg.ParseRepositoryURL(tt.url)
			if tt.wantErr {
				require.ErrorIs(t, err, ghpkg.ErrInvalidURLFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestGetIssue(t *testing.T) {
	mux, client := setupServer(t)
	mux.HandleFunc("/repos/decidim/decidim/issues/12345", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"number": 12345,
			"title": "Fix whatever",
			"state": "closed",
			"labels": [{"name": "type: fix"}, {"name": "module: admin"}],
			"pull_request": {"merged_at": "2024-03-01T10:00:00Z"}
		}`)
	})

	issue, err := client.GetIssue(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, 12345, issue.Number)
	assert.Equal(t, "Fix whatever", issue.Title)
	assert.True(t, issue.IsPullRequest)
	assert.True(t, issue.Merged())
	assert.Equal(t, "merged", issue.EffectiveState())
	assert.Equal(t, []string{"type: fix", "module: admin"}, issue.Labels)
}

func TestGetIssue_UnmergedPullRequest(t *testing.T) {
	mux, client := setupServer(t)
	mux.HandleFunc("/repos/decidim/decidim/issues/7", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"number": 7, "title": "WIP", "state": "open", "pull_request": {"merged_at": null}}`)
	})

	issue, err := client.GetIssue(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, issue.IsPullRequest)
	assert.False(t, issue.Merged())
	assert.Equal(t, "open", issue.EffectiveState())
}

func TestGetIssue_NotFound(t *testing.T) {
	mux, client := setupServer(t)
	mux.HandleFunc("/repos/decidim/decidim/issues/404", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	_, err := client.GetIssue(context.Background(), 404)
	require.ErrorIs(t, err, ghpkg.ErrIssueNotFound)
}

func TestGetIssue_RepositoryNotSet(t *testing.T) {
	client, err := ghpkg.NewClientWithBaseURL(http.DefaultClient, "http://127.0.0.1:1")
	require.NoError(t, err)

	_, err = client.GetIssue(context.Background(), 1)
	require.ErrorIs(t, err, ghpkg.ErrRepositoryNotSet)
}

func TestListCrossReferences(t *testing.T) {
	mux, client := setupServer(t)
	mux.HandleFunc("/repos/decidim/decidim/issues/100/timeline", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"event": "labeled"},
			{"event": "cross-referenced", "source": {"issue": {"number": 101, "title": "Backport 'Fix foo' to v0.27", "state": "open", "pull_request": {}}}},
			{"event": "cross-referenced", "source": {"issue": {"number": 102, "title": "Backport 'Fix foo' to v0.26", "state": "closed", "pull_request": {"merged_at": "2024-03-02T10:00:00Z"}}}},
			{"event": "commented"}
		]`)
	})

	refs, err := client.ListCrossReferences(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, 101, refs[0].Number)
	assert.Equal(t, "open", refs[0].EffectiveState())
	assert.Equal(t, 102, refs[1].Number)
	assert.Equal(t, "merged", refs[1].EffectiveState())
}

func TestSearchIssues(t *testing.T) {
	mux, client := setupServer(t)
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `repo:decidim/decidim is:pr is:open in:title "New Crowdin updates"`, r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"total_count": 1, "items": [{"number": 9, "title": "New Crowdin updates", "state": "open", "pull_request": {}}]}`)
	})

	found, err := client.SearchIssues(context.Background(), `is:pr is:open in:title "New Crowdin updates"`)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 9, found[0].Number)
}

func TestCreateIssue(t *testing.T) {
	mux, client := setupServer(t)
	mux.HandleFunc("/repos/decidim/decidim/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var payload map[string]any
		assert.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "Fail: automatic backport", payload["title"])
		assert.Equal(t, []any{"type: fix"}, payload["labels"])
		assert.Equal(t, []any{"maintainer"}, payload["assignees"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number": 555, "title": "Fail: automatic backport", "state": "open", "html_url": "https://github.com/decidim/decidim/issues/555"}`)
	})

	issue, err := client.CreateIssue(context.Background(), "Fail: automatic backport", "body",
		[]string{"type: fix"}, []string{"maintainer"})
	require.NoError(t, err)
	assert.Equal(t, 555, issue.Number)
	assert.Equal(t, "https://github.com/decidim/decidim/issues/555", issue.HTMLURL)
}

func TestCreatePullRequest(t *testing.T) {
	mux, client := setupServer(t)
	mux.HandleFunc("/repos/decidim/decidim/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number": 77, "title": "Bump to v0.30.0 version", "state": "open", "html_url": "https://github.com/decidim/decidim/pull/77"}`)
	})
	var labeled bool
	mux.HandleFunc("/repos/decidim/decidim/issues/77/labels", func(w http.ResponseWriter, _ *http.Request) {
		labeled = true
		fmt.Fprint(w, `[{"name": "type: internal"}]`)
	})

	pr, err := client.CreatePullRequest(context.Background(),
		"chore/prepare/0.30.0", "release/0.30-stable", "Bump to v0.30.0 version", "",
		nil, []string{"type: internal"})
	require.NoError(t, err)
	assert.Equal(t, 77, pr.Number)
	assert.True(t, pr.IsPullRequest)
	assert.True(t, labeled)
}
