package changelog

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed base.txt
var baseTemplate string

// DefaultTemplate returns the prompt template embedded at build time.
// It is always available without file system or network access.
func DefaultTemplate() string {
	return baseTemplate
}

// LoadTemplate reads a prompt template from path, falling back to the
// embedded default when path is empty.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return baseTemplate, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("loading prompt template %s: %w", path, err)
	}
	return string(data), nil
}
