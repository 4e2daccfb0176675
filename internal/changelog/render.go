package changelog

import (
	"fmt"
	"io"

	"github.com/shiplog/shiplog/internal/git"
)

// Entry pairs a commit with its model-generated changelog bullet.
// A failed summarization leaves Summary empty and records the error.
type Entry struct {
	Commit  git.Commit
	Summary string
	Err     error
}

// RenderMarkdown writes entries as a markdown changelog section. Entries
// arrive newest first and are emitted in that order. Entries whose
// summarization failed fall back to the raw commit subject so the changelog
// is never silently missing a change.
func RenderMarkdown(w io.Writer, repoName, dateRange string, entries []Entry) error {
	if _, err := fmt.Fprintf(w, "# Changelog for %s\n\n", repoName); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "_%s_\n\n", dateRange); err != nil {
		return err
	}

	for _, e := range entries {
		line := e.Summary
		if line == "" {
			line = e.Commit.Subject
		}
		if _, err := fmt.Fprintf(w, "- %s\n", line); err != nil {
			return err
		}
	}

	return nil
}
