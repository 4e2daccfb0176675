package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiplog/shiplog/internal/changelog"
	"github.com/shiplog/shiplog/internal/config"
	clierrors "github.com/shiplog/shiplog/internal/errors"
	"github.com/shiplog/shiplog/internal/git"
	"github.com/shiplog/shiplog/internal/llm"
)

// fakeSummarizer returns canned summaries and records call counts.
type fakeSummarizer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, req llm.Request) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return "  summary of: " + req.User + "  ", nil
}

func (f *fakeSummarizer) Name() string { return "fake-model" }

func testSummarizeConfig() *config.Configuration {
	return &config.Configuration{
		Model:            "gpt-4o",
		Temperature:      0.7,
		MaxSummaryTokens: 100,
		Concurrency:      2,
	}
}

func summarizeFixture() ([]git.Commit, []changelog.Entry) {
	commits := []git.Commit{
		{Hash: "abc", Subject: "feat: add login", Message: "feat: add login", Date: cliFixtureBase},
		{Hash: "def", Subject: "fix: crash", Message: "fix: crash", Date: cliFixtureBase.Add(time.Hour)},
	}
	return commits, make([]changelog.Entry, len(commits))
}

func newSummarizeTestCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestSummarizeAll_FillsEntriesInOrder(t *testing.T) {
	commits, entries := summarizeFixture()
	fake := &fakeSummarizer{}

	err := summarizeAll(newSummarizeTestCmd(), fake, testSummarizeConfig(),
		changelog.DefaultTemplate(), changelog.Context{RepoName: "repo", DateRange: "range"},
		commits, entries)
	require.NoError(t, err)

	assert.Equal(t, int32(2), fake.calls.Load())
	// Entries line up with their commits and summaries come back trimmed.
	assert.Equal(t, "abc", entries[0].Commit.Hash)
	assert.Equal(t, "def", entries[1].Commit.Hash)
	assert.Contains(t, entries[0].Summary, "feat: add login")
	assert.Equal(t, strings.TrimSpace(entries[0].Summary), entries[0].Summary)
}

func TestSummarizeAll_ServiceUnavailable(t *testing.T) {
	commits, entries := summarizeFixture()
	fake := &fakeSummarizer{err: fmt.Errorf("status 503: %w", llm.ErrServiceUnavailable)}

	err := summarizeAll(newSummarizeTestCmd(), fake, testSummarizeConfig(),
		changelog.DefaultTemplate(), changelog.Context{}, commits, entries)
	require.Error(t, err)

	assert.Equal(t, ExitRuntimeError, ExitCodeOf(err))
	cliErr := findCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, clierrors.Service, cliErr.Category)
}

func TestSummarizeAll_InvalidTemplate(t *testing.T) {
	commits, entries := summarizeFixture()

	err := summarizeAll(newSummarizeTestCmd(), &fakeSummarizer{}, testSummarizeConfig(),
		"no placeholders here", changelog.Context{}, commits, entries)
	require.Error(t, err)

	cliErr := findCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, clierrors.Configuration, cliErr.Category)
}

func TestSummarizeError_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"service unavailable", llm.ErrServiceUnavailable},
		{"rate limited", llm.ErrRateLimited},
		{"other", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := summarizeError(tt.err)
			assert.Equal(t, ExitRuntimeError, ExitCodeOf(err))
			cliErr := findCLIError(err)
			require.NotNil(t, cliErr)
			assert.Equal(t, clierrors.Service, cliErr.Category)
		})
	}
}

func TestSummarize_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "Improved something users care about."}}]}`))
	}))
	defer server.Close()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("SHIPLOG_BASE_URL", server.URL)

	dir := seedRepo(t, "Initial commit", "feat: add login")

	stdout, stderr, err := runShiplog(t, "summarize",
		"-r", dir, "--since-date", "2024-03-01T12:00:00Z")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Changelog")
	assert.Contains(t, stdout, "- Improved something users care about.")
	assert.Contains(t, stderr, "Summarized 2 commits")
}

func TestSummarize_MissingAPIKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")

	dir := seedRepo(t, "Initial commit")

	_, _, err := runShiplog(t, "summarize", "-r", dir, "--since-date", "2024-03-01T12:00:00Z")
	require.Error(t, err)

	cliErr := findCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, clierrors.Configuration, cliErr.Category)
}

func TestSummarize_NoCommitsSkipsLLM(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")

	dir := seedRepo(t, "Initial commit")

	// No API key set, but with zero matching commits the client is never built.
	stdout, stderr, err := runShiplog(t, "summarize",
		"-r", dir, "--since-date", "2030-01-01T00:00:00Z")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Changelog")
	assert.Contains(t, stderr, "Summarized 0 commits")
}

func TestRepoDirName(t *testing.T) {
	assert.Equal(t, "repo", repoDirName("/tmp/somewhere/repo"))
	assert.NotEmpty(t, repoDirName("."))
}
