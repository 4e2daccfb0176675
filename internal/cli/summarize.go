package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/shiplog/shiplog/internal/changelog"
	"github.com/shiplog/shiplog/internal/config"
	clierrors "github.com/shiplog/shiplog/internal/errors"
	"github.com/shiplog/shiplog/internal/git"
	"github.com/shiplog/shiplog/internal/llm"
	"github.com/shiplog/shiplog/internal/output"
	"github.com/shiplog/shiplog/internal/shape"
)

var (
	sumRepoPath    string
	sumSinceDate   string
	sumSinceTag    string
	sumOutput      string
	sumModel       string
	sumPromptFile  string
	sumConfigPath  string
	sumConcurrency int
	sumNoShape     bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize commits into changelog bullets with an LLM",
	Long: `Summarize commits into changelog bullets with an LLM.

Fetches commits like 'fetch-commits', shapes the list for changelog
relevance (merges and reverts dropped, trivial runs collapsed; disable
with --no-shape), then asks the configured model for one end-user bullet
per commit and renders the result as markdown.

Requires OPENAI_API_KEY (or an OpenAI-compatible endpoint via base_url).

Examples:
  shiplog summarize -r . --since-tag v1.2.0
  shiplog summarize -r . --since-date 2024-01-01T00:00:00Z -o CHANGES.md
  shiplog summarize -r . --since-tag v1.2.0 --model gpt-4o-mini`,
	SilenceUsage: true,
	RunE:         runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVarP(&sumRepoPath, "repo-path", "r", "", "Path to the Git repository (e.g., '.')")
	summarizeCmd.Flags().StringVar(&sumSinceDate, "since-date", "", "Summarize commits at or after this RFC 3339 date")
	summarizeCmd.Flags().StringVar(&sumSinceTag, "since-tag", "", "Summarize commits after this tag (exclusive)")
	summarizeCmd.Flags().StringVarP(&sumOutput, "output", "o", output.StdoutDestination, "Output file for the markdown ('-' for stdout)")
	summarizeCmd.Flags().StringVar(&sumModel, "model", "", "Model to use (overrides config)")
	summarizeCmd.Flags().StringVar(&sumPromptFile, "prompt-file", "", "Custom prompt template file (overrides config)")
	summarizeCmd.Flags().StringVar(&sumConfigPath, "config", "", "Project config file path")
	summarizeCmd.Flags().IntVar(&sumConcurrency, "concurrency", 0, "Concurrent summarization requests (overrides config)")
	summarizeCmd.Flags().BoolVar(&sumNoShape, "no-shape", false, "Summarize every fetched commit, including merges and trivial runs")

	_ = summarizeCmd.MarkFlagRequired("repo-path")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(sumConfigPath)
	if err != nil {
		return NewExitError(ExitRuntimeError, clierrors.Wrap(err, clierrors.Configuration))
	}

	// Flag overrides (flag > env > config file > defaults)
	if cmd.Flags().Changed("model") {
		cfg.Model = sumModel
	}
	if cmd.Flags().Changed("prompt-file") {
		cfg.PromptFile = sumPromptFile
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = sumConcurrency
	}

	opts := git.Options{
		RepoPath:  sumRepoPath,
		SinceDate: sumSinceDate,
		SinceTag:  sumSinceTag,
	}

	result, err := git.FetchCommits(opts)
	if err != nil {
		return fetchError(err, opts)
	}

	commits := result.Commits
	if !sumNoShape {
		commits = shape.Shape(commits)
	}

	template, err := changelog.LoadTemplate(cfg.PromptFile)
	if err != nil {
		return NewExitError(ExitRuntimeError, clierrors.Wrap(err, clierrors.Configuration))
	}

	repoName := cfg.RepoName
	if repoName == "" {
		repoName = repoDirName(sumRepoPath)
	}
	promptCtx := changelog.Context{
		RepoName:  repoName,
		DateRange: result.DateRange(),
	}

	entries := make([]changelog.Entry, len(commits))
	if len(commits) > 0 {
		client, err := llm.NewClient(cfg.Model, cfg.BaseURL, cfg.LLMTimeout())
		if err != nil {
			if errors.Is(err, llm.ErrAPIKeyMissing) {
				return NewExitError(ExitRuntimeError, clierrors.APIKeyMissing())
			}
			return NewExitError(ExitRuntimeError, clierrors.Wrap(err, clierrors.Service))
		}

		if err := summarizeAll(cmd, client, cfg, template, promptCtx, commits, entries); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := changelog.RenderMarkdown(&buf, repoName, promptCtx.DateRange, entries); err != nil {
		return NewExitError(ExitRuntimeError, clierrors.OutputWriteFailure(sumOutput, err))
	}
	if err := output.WriteBytes(sumOutput, cmd.OutOrStdout(), buf.Bytes()); err != nil {
		return NewExitError(ExitRuntimeError, clierrors.OutputWriteFailure(sumOutput, err))
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Summarized %d commits (%s)\n", len(commits), promptCtx.DateRange)
	return nil
}

// summarizeAll runs the per-commit LLM calls with bounded concurrency and
// fills entries in commit order. A spinner runs on stderr while requests are
// in flight when stderr is a terminal.
func summarizeAll(cmd *cobra.Command, client llm.Summarizer, cfg *config.Configuration, template string, promptCtx changelog.Context, commits []git.Commit, entries []changelog.Entry) error {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		sp.Suffix = fmt.Sprintf(" Summarizing %d commits with %s...", len(commits), client.Name())
		sp.Start()
		defer sp.Stop()
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Concurrency)

	for i, c := range commits {
		g.Go(func() error {
			prompt, err := changelog.BuildPrompt(template, c.Message, promptCtx)
			if err != nil {
				return NewExitError(ExitRuntimeError, clierrors.PromptTemplateInvalid(err))
			}

			summary, err := client.Summarize(ctx, llm.Request{
				System:      prompt.System,
				User:        prompt.User,
				MaxTokens:   cfg.MaxSummaryTokens,
				Temperature: cfg.Temperature,
			})
			if err != nil {
				return summarizeError(err)
			}

			entries[i] = changelog.Entry{Commit: c, Summary: strings.TrimSpace(summary)}
			return nil
		})
	}

	return g.Wait()
}

// summarizeError maps LLM collaborator failures to structured CLI errors.
func summarizeError(err error) error {
	switch {
	case errors.Is(err, llm.ErrServiceUnavailable), errors.Is(err, llm.ErrRateLimited):
		return NewExitError(ExitRuntimeError, clierrors.ServiceUnavailable(err))
	case llm.IsAuthError(err):
		return NewExitError(ExitRuntimeError, clierrors.Wrap(err, clierrors.Service,
			"Verify your API key is valid: echo $OPENAI_API_KEY"))
	default:
		return NewExitError(ExitRuntimeError, clierrors.Wrap(err, clierrors.Service))
	}
}

// repoDirName derives a display name for the repository from its path.
func repoDirName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "this project"
	}
	return filepath.Base(abs)
}
