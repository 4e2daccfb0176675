// Package shape filters a fetched commit list down to the commits worth
// turning into changelog entries: merge and revert commits are dropped, and
// runs of consecutive trivial commits by the same author are collapsed to
// their newest member.
package shape

import (
	"strings"

	"github.com/shiplog/shiplog/internal/git"
)

// trivialPrefixes are conventional-commit types that rarely matter to end
// users. docs: is deliberately kept; documentation changes often do.
var trivialPrefixes = []string{
	"chore:", "style:", "refactor:", "test:", "ci:", "build:", "perf:",
}

// IsMerge reports whether the commit is a merge commit. Merge nodes have
// more than one parent; fast-forward merges produce no node at all.
func IsMerge(c git.Commit) bool {
	return len(c.Parents) > 1
}

// IsRevert reports whether the commit subject marks it as a revert.
func IsRevert(c git.Commit) bool {
	return strings.HasPrefix(strings.ToLower(c.Subject), "revert ")
}

// IsTrivial reports whether the commit subject carries a trivial
// conventional-commit prefix.
func IsTrivial(c git.Commit) bool {
	subject := strings.ToLower(c.Subject)
	for _, prefix := range trivialPrefixes {
		if strings.HasPrefix(subject, prefix) {
			return true
		}
	}
	return false
}

// Shape filters and collapses a newest-first commit list:
//
//  1. merge commits are dropped
//  2. revert commits are dropped
//  3. consecutive trivial commits by the same author are collapsed,
//     keeping the newest commit of each run
//
// The returned slice preserves newest-first ordering. The input is not
// modified.
func Shape(commits []git.Commit) []git.Commit {
	if len(commits) == 0 {
		return nil
	}

	kept := make([]git.Commit, 0, len(commits))
	for _, c := range commits {
		if IsMerge(c) || IsRevert(c) {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil
	}

	shaped := make([]git.Commit, 0, len(kept))
	var lastAuthor string
	lastTrivial := false

	for _, c := range kept {
		trivial := IsTrivial(c)
		if trivial && lastTrivial && c.Author == lastAuthor {
			continue
		}
		shaped = append(shaped, c)
		lastAuthor = c.Author
		lastTrivial = trivial
	}

	return shaped
}
