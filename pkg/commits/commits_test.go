package commits_test

import (
	"errors"
	"testing"

	"github.com/sgaunet/release-toolbox/pkg/commits"
	"github.com/sgaunet/release-toolbox/testing/fixtures"
	"github.com/sgaunet/release-toolbox/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"single line", "Fix proposals filter (#12345)", "Fix proposals filter (#12345)"},
		{"with body", "Fix proposals filter (#12345)\n\n* Fix filter\n* Add system test\n", "Fix proposals filter (#12345)"},
		{"surrounding whitespace", "  Bump rubocop  \n", "Bump rubocop"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commits.Subject(tt.message); got != tt.want {
				t.Errorf("Subject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommit_OneLine(t *testing.T) {
	c := fixtures.ParsedCommit("Fix proposals filter (#12345)\n\nCloses #12000")
	assert.Equal(t, c.ShortHash()+" Fix proposals filter (#12345)", c.OneLine())
	assert.Len(t, c.ShortHash(), commits.ShortHashLength)
	assert.False(t, c.Merge)

	short := commits.Commit{Hash: "abc", Subject: "Typo"}
	assert.Equal(t, "abc Typo", short.OneLine())
}

func TestRetriever_SinceIsChronological(t *testing.T) {
	history := mocks.NewCommitHistory(
		fixtures.GitCommit("Add meetings calendar (#12346)"),
		fixtures.GitCommit("Fix proposals filter (#12345)"),
		fixtures.GitCommit(""),
	)
	r := commits.NewRetriever(history)

	lines, err := r.LinesSince("abc1234")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Fix proposals filter (#12345)")
	assert.Contains(t, lines[1], "Add meetings calendar (#12346)")
	assert.Equal(t, "abc1234", history.GetLastCall("CommitsSince").Args["since"])
}

func TestRetriever_EmptyRange(t *testing.T) {
	r := commits.NewRetriever(mocks.NewCommitHistory())

	got, err := r.Since("HEAD")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetriever_Error(t *testing.T) {
	history := mocks.NewCommitHistory()
	history.Err = errors.New("reference not found")
	r := commits.NewRetriever(history)

	_, err := r.Since("deadbeef")
	require.ErrorIs(t, err, history.Err)
}
