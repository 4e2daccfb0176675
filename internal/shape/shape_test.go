package shape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/shiplog/shiplog/internal/git"
)

func commit(subject, author string, parents int) git.Commit {
	p := make([]string, parents)
	for i := range p {
		p[i] = "parent"
	}
	return git.Commit{
		Hash:    subject,
		Author:  author,
		Date:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Message: subject,
		Subject: subject,
		Parents: p,
	}
}

func subjects(commits []git.Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Subject)
	}
	return out
}

func TestIsMerge(t *testing.T) {
	assert.False(t, IsMerge(commit("feat: add login", "alice", 1)))
	assert.False(t, IsMerge(commit("root commit", "alice", 0)))
	assert.True(t, IsMerge(commit("Merge branch 'main'", "alice", 2)))
}

func TestIsRevert(t *testing.T) {
	assert.True(t, IsRevert(commit(`Revert "feat: add login"`, "alice", 1)))
	assert.True(t, IsRevert(commit("revert broken deploy", "alice", 1)))
	assert.False(t, IsRevert(commit("feat: revert-safe deploys", "alice", 1)))
}

func TestIsTrivial(t *testing.T) {
	tests := map[string]struct {
		subject string
		want    bool
	}{
		"chore":           {"chore: bump deps", true},
		"style":           {"style: gofmt", true},
		"refactor":        {"refactor: split package", true},
		"test":            {"test: cover edge cases", true},
		"ci":              {"ci: cache modules", true},
		"build":           {"build: static binary", true},
		"perf":            {"perf: avoid allocation", true},
		"uppercase chore": {"Chore: bump deps", true},
		"feat":            {"feat: add login", false},
		"fix":             {"fix: crash on empty input", false},
		"docs kept":       {"docs: describe config", false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTrivial(commit(tc.subject, "alice", 1)))
		})
	}
}

func TestShape_DropsMergesAndReverts(t *testing.T) {
	shaped := Shape([]git.Commit{
		commit("feat: add login", "alice", 1),
		commit("Merge branch 'feature/login'", "alice", 2),
		commit(`Revert "fix: flaky retry"`, "bob", 1),
		commit("fix: crash on empty input", "bob", 1),
	})

	assert.Equal(t, []string{
		"feat: add login",
		"fix: crash on empty input",
	}, subjects(shaped))
}

func TestShape_CollapsesConsecutiveTrivialBySameAuthor(t *testing.T) {
	// Newest first: three chore commits in a row by alice collapse to the
	// newest one; bob's chore in between breaks the run.
	shaped := Shape([]git.Commit{
		commit("chore: bump deps v3", "alice", 1),
		commit("chore: bump deps v2", "alice", 1),
		commit("chore: tidy makefile", "bob", 1),
		commit("chore: bump deps v1", "alice", 1),
		commit("feat: add login", "alice", 1),
	})

	assert.Equal(t, []string{
		"chore: bump deps v3",
		"chore: tidy makefile",
		"chore: bump deps v1",
		"feat: add login",
	}, subjects(shaped))
}

func TestShape_TrivialRunBrokenByNonTrivial(t *testing.T) {
	shaped := Shape([]git.Commit{
		commit("chore: bump deps v2", "alice", 1),
		commit("feat: add login", "alice", 1),
		commit("chore: bump deps v1", "alice", 1),
	})

	// Non-trivial commit between the chores keeps both.
	assert.Equal(t, []string{
		"chore: bump deps v2",
		"feat: add login",
		"chore: bump deps v1",
	}, subjects(shaped))
}

func TestShape_EmptyAndAllFiltered(t *testing.T) {
	assert.Nil(t, Shape(nil))
	assert.Nil(t, Shape([]git.Commit{}))

	onlyMerges := Shape([]git.Commit{
		commit("Merge branch 'a'", "alice", 2),
		commit("Merge branch 'b'", "alice", 2),
	})
	assert.Nil(t, onlyMerges)
}

func TestShape_DoesNotModifyInput(t *testing.T) {
	input := []git.Commit{
		commit("feat: add login", "alice", 1),
		commit("Merge branch 'x'", "alice", 2),
	}

	_ = Shape(input)
	assert.Equal(t, "feat: add login", input[0].Subject)
	assert.Equal(t, "Merge branch 'x'", input[1].Subject)
}
