package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shiplog/shiplog/internal/git"
)

// PrintStats writes the fetch statistics summary to w (normally stderr).
// Colors auto-disable when w is not a terminal.
func PrintStats(w io.Writer, result *git.FetchResult) {
	label := color.New(color.FgCyan, color.Bold).SprintFunc()
	value := color.New(color.FgWhite).SprintFunc()

	if result.Count == 0 {
		fmt.Fprintf(w, "%s %s\n", label("Commits:"), value("0 (none matched)"))
		return
	}

	fmt.Fprintf(w, "%s %s\n", label("Commits:"), value(fmt.Sprintf("%d", result.Count)))
	fmt.Fprintf(w, "%s %s\n", label("Range:"), value(result.DateRange()))
}
