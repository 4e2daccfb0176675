// Package git reads commit metadata from a local repository using the go-git
// library, without requiring a git CLI installation. Commits are returned
// newest first, filtered by an inclusive since-date or an exclusive since-tag
// boundary.
package git

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Sentinel errors for the failure modes callers are expected to branch on.
var (
	// ErrInvalidRepository indicates the path does not reference a git repository.
	ErrInvalidRepository = errors.New("not a git repository")
	// ErrInvalidDateFormat indicates the since-date did not parse as RFC 3339.
	ErrInvalidDateFormat = errors.New("invalid RFC 3339 date")
	// ErrTagNotFound indicates the since-tag does not exist in the repository.
	ErrTagNotFound = errors.New("tag not found")
	// ErrInvalidSelector indicates the since-date/since-tag selection is missing
	// or ambiguous. Exactly one selector must be provided.
	ErrInvalidSelector = errors.New("exactly one of since-date or since-tag must be provided")
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Commit is the immutable record extracted for one commit. The hash, author,
// date, and message JSON field names are the stable wire contract; subject,
// body, and parents carry the extra detail the shaping and summarization
// stages need.
type Commit struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
	Subject string    `json:"subject"`
	Body    string    `json:"body,omitempty"`
	Parents []string  `json:"parents"`
}

// FetchResult holds one invocation's commits plus derived statistics.
// Commits are ordered newest first by committer time.
type FetchResult struct {
	Commits  []Commit
	Count    int
	Earliest time.Time
	Latest   time.Time
}

// DateRange returns a human-readable "earliest to latest" range for the
// result set, or "no commits" when the set is empty.
func (r *FetchResult) DateRange() string {
	if r.Count == 0 {
		return "no commits"
	}
	return fmt.Sprintf("%s to %s",
		r.Earliest.Format("2006-01-02"), r.Latest.Format("2006-01-02"))
}

// Options selects which commits to fetch. Exactly one of SinceDate or
// SinceTag must be set.
type Options struct {
	// RepoPath is the path to the repository. Unlike most git tooling the
	// path is taken literally: parent directories are not searched.
	RepoPath string
	// SinceDate is an RFC 3339 timestamp. Commits whose committer time is at
	// or after this instant are included (inclusive lower bound).
	SinceDate string
	// SinceTag names an existing tag. Commits strictly after the tagged
	// commit are included (tag..HEAD semantics, the tag commit excluded).
	SinceTag string
}

// FetchCommits enumerates commits reachable from HEAD that match the
// selector in opts, newest first. A selector that matches nothing is a
// normal outcome: the result carries an empty slice and a zero count.
func FetchCommits(opts Options) (*FetchResult, error) {
	if (opts.SinceDate == "") == (opts.SinceTag == "") {
		return nil, ErrInvalidSelector
	}

	var since time.Time
	if opts.SinceDate != "" {
		parsed, err := time.Parse(time.RFC3339, opts.SinceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDateFormat, opts.SinceDate)
		}
		since = parsed.UTC()
	}

	logDebug("[git] opening repository at %s", opts.RepoPath)
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRepository, opts.RepoPath)
	}

	var excluded map[plumbing.Hash]bool
	if opts.SinceTag != "" {
		excluded, err = ancestorsOfTag(repo, opts.SinceTag)
		if err != nil {
			return nil, err
		}
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if excluded != nil && excluded[c.Hash] {
			return nil
		}
		if opts.SinceDate != "" && c.Committer.When.UTC().Before(since) {
			return nil
		}
		commits = append(commits, newCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading commits: %w", err)
	}

	logDebug("[git] fetched %d commits from %s", len(commits), opts.RepoPath)
	return NewFetchResult(commits), nil
}

// ancestorsOfTag resolves the tag to its commit and returns that commit plus
// all of its ancestors. Excluding this set from a HEAD walk yields exact
// tag..HEAD range semantics regardless of branching.
func ancestorsOfTag(repo *git.Repository, name string) (map[plumbing.Hash]bool, error) {
	hash, err := resolveTagCommit(repo, name)
	if err != nil {
		return nil, err
	}

	tagCommit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit for tag %q: %w", name, err)
	}

	excluded := make(map[plumbing.Hash]bool)
	iter := object.NewCommitPreorderIter(tagCommit, nil, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		excluded[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking ancestors of tag %q: %w", name, err)
	}

	logDebug("[git] tag %q excludes %d ancestor commits", name, len(excluded))
	return excluded, nil
}

// resolveTagCommit returns the commit hash a tag points at, dereferencing
// annotated tag objects. Lightweight tags reference the commit directly.
func resolveTagCommit(repo *git.Repository, name string) (plumbing.Hash, error) {
	ref, err := repo.Tag(name)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w: %q", ErrTagNotFound, name)
	}

	if tag, err := repo.TagObject(ref.Hash()); err == nil {
		commit, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("dereferencing annotated tag %q: %w", name, err)
		}
		return commit.Hash, nil
	}

	return ref.Hash(), nil
}

// newCommit extracts the Commit record from a go-git commit object.
// Dates are normalized to UTC so JSON output is timezone-stable.
func newCommit(c *object.Commit) Commit {
	subject, body := SplitMessage(c.Message)

	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return Commit{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Date:    c.Committer.When.UTC(),
		Message: strings.TrimRight(c.Message, "\n"),
		Subject: subject,
		Body:    body,
		Parents: parents,
	}
}

// SplitMessage splits a raw commit message into its subject line and body.
// The blank separator line between subject and body is not part of the body.
func SplitMessage(message string) (subject, body string) {
	subject, body, found := strings.Cut(message, "\n")
	subject = strings.TrimSpace(subject)
	if !found {
		return subject, ""
	}
	body = strings.TrimLeft(body, "\n")
	return subject, strings.TrimRight(body, "\n")
}

// NewFetchResult wraps a commit slice with its derived statistics. Callers
// that filter the slice after fetching use this to recompute the stats.
func NewFetchResult(commits []Commit) *FetchResult {
	result := &FetchResult{
		Commits: commits,
		Count:   len(commits),
	}

	for _, c := range commits {
		if result.Earliest.IsZero() || c.Date.Before(result.Earliest) {
			result.Earliest = c.Date
		}
		if c.Date.After(result.Latest) {
			result.Latest = c.Date
		}
	}

	return result
}
