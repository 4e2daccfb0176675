// Package output emits the fetched commits as JSON and renders run
// statistics. JSON always goes to the selected destination (stdout or a
// file); statistics and diagnostics always go to stderr, so piping the JSON
// stays clean.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shiplog/shiplog/internal/git"
)

// StdoutDestination is the output value that selects standard output.
const StdoutDestination = "-"

// MarshalCommits renders commits as an indented JSON array. The empty and
// nil cases both produce "[]" so output is always a valid JSON document.
func MarshalCommits(commits []git.Commit) ([]byte, error) {
	if commits == nil {
		commits = []git.Commit{}
	}

	data, err := json.MarshalIndent(commits, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling commits: %w", err)
	}
	return data, nil
}

// WriteJSON writes the commit array to w, terminated by a newline.
func WriteJSON(w io.Writer, commits []git.Commit) error {
	data, err := MarshalCommits(commits)
	if err != nil {
		return err
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// WriteJSONTo writes the commit array to the named destination.
// "-" selects stdout (the provided writer); anything else is a file path
// created with 0644 permissions. The JSON bytes written to a file are
// identical to what stdout would have received.
func WriteJSONTo(dest string, stdout io.Writer, commits []git.Commit) error {
	data, err := MarshalCommits(commits)
	if err != nil {
		return err
	}
	return WriteBytes(dest, stdout, append(data, '\n'))
}

// WriteBytes writes data to the named destination: "-" (or empty) selects
// the provided stdout writer, anything else a file created with 0644
// permissions.
func WriteBytes(dest string, stdout io.Writer, data []byte) error {
	if dest == "" || dest == StdoutDestination {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing output file %s: %w", dest, err)
	}
	return nil
}
