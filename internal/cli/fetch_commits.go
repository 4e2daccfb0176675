package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/shiplog/shiplog/internal/errors"
	"github.com/shiplog/shiplog/internal/git"
	"github.com/shiplog/shiplog/internal/output"
	"github.com/shiplog/shiplog/internal/shape"
)

var (
	fetchRepoPath  string
	fetchSinceDate string
	fetchSinceTag  string
	fetchOutput    string
	fetchShape     bool
)

var fetchCommitsCmd = &cobra.Command{
	Use:   "fetch-commits",
	Short: "Fetch commits from a Git repository and output them as JSON",
	Long: `Fetch commits from a Git repository and output them as JSON.

Commits reachable from HEAD are returned newest first. Use --since-date for
an inclusive RFC 3339 lower bound on committer time, or --since-tag to take
everything after a release tag (the tagged commit itself is excluded).

The JSON array goes to stdout (or to --output); the statistics summary
always goes to stderr, so the JSON stays pipeable.

Examples:
  shiplog fetch-commits -r . --since-date 2024-01-01T00:00:00Z
  shiplog fetch-commits -r ../app --since-tag v1.2.0 -o commits.json
  shiplog fetch-commits -r . --since-date 2024-01-01T00:00:00Z --shape`,
	SilenceUsage: true,
	RunE:         runFetchCommits,
}

func init() {
	rootCmd.AddCommand(fetchCommitsCmd)

	fetchCommitsCmd.Flags().StringVarP(&fetchRepoPath, "repo-path", "r", "", "Path to the Git repository (e.g., '.')")
	fetchCommitsCmd.Flags().StringVar(&fetchSinceDate, "since-date", "", "Fetch commits at or after this RFC 3339 date")
	fetchCommitsCmd.Flags().StringVar(&fetchSinceTag, "since-tag", "", "Fetch commits after this tag (exclusive)")
	fetchCommitsCmd.Flags().StringVarP(&fetchOutput, "output", "o", output.StdoutDestination, "Output file for the JSON data ('-' for stdout)")
	fetchCommitsCmd.Flags().BoolVar(&fetchShape, "shape", false, "Drop merge/revert commits and collapse consecutive trivial commits")

	_ = fetchCommitsCmd.MarkFlagRequired("repo-path")
}

func runFetchCommits(cmd *cobra.Command, args []string) error {
	opts := git.Options{
		RepoPath:  fetchRepoPath,
		SinceDate: fetchSinceDate,
		SinceTag:  fetchSinceTag,
	}

	result, err := git.FetchCommits(opts)
	if err != nil {
		return fetchError(err, opts)
	}

	commits := result.Commits
	if fetchShape {
		commits = shape.Shape(commits)
		// Statistics must describe what is actually emitted.
		result = git.NewFetchResult(commits)
	}

	if err := output.WriteJSONTo(fetchOutput, cmd.OutOrStdout(), commits); err != nil {
		return NewExitError(ExitRuntimeError, clierrors.OutputWriteFailure(fetchOutput, err))
	}

	output.PrintStats(cmd.ErrOrStderr(), result)
	if fetchOutput != "" && fetchOutput != output.StdoutDestination {
		fmt.Fprintf(cmd.ErrOrStderr(), "Commit data written to %s\n", fetchOutput)
	}

	return nil
}

// fetchError maps git package sentinel errors to structured CLI errors with
// the right exit codes.
func fetchError(err error, opts git.Options) error {
	switch {
	case errors.Is(err, git.ErrInvalidSelector):
		return NewExitError(ExitInvalidArguments, clierrors.MissingSinceSelector())
	case errors.Is(err, git.ErrInvalidDateFormat):
		return NewExitError(ExitInvalidArguments, clierrors.InvalidDateFormat(opts.SinceDate))
	case errors.Is(err, git.ErrInvalidRepository):
		return NewExitError(ExitRuntimeError, clierrors.InvalidRepository(opts.RepoPath))
	case errors.Is(err, git.ErrTagNotFound):
		return NewExitError(ExitRuntimeError, clierrors.TagNotFound(opts.SinceTag))
	default:
		return NewExitError(ExitRuntimeError, clierrors.Wrap(err, clierrors.Repository))
	}
}
