// Package changelog builds the instruction prompts sent to the language
// model and renders the resulting summaries as a markdown changelog.
// Prompt construction is pure string work; the model call itself lives in
// the llm package.
package changelog

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholders the template must contain. Substitution is plain string
// replacement, one occurrence or many.
const (
	PlaceholderRepoName  = "{{REPO_NAME}}"
	PlaceholderDateRange = "{{DATE_RANGE}}"
	PlaceholderMessage   = "{{COMMIT_MESSAGE_PLACEHOLDER}}"
)

// ErrEmptyUserContent indicates the template produced no user-role content
// after the System:/User: split. There is nothing to send to the model.
var ErrEmptyUserContent = errors.New("prompt template produced empty user content")

// Prompt is a fully-assembled instruction ready for the model: a system
// role preamble (possibly empty) and the user-role request.
type Prompt struct {
	System string
	User   string
}

// Context supplies the non-message substitutions for the template.
type Context struct {
	RepoName  string
	DateRange string
}

// BuildPrompt substitutes the commit message and context into template and
// splits the result into system and user content on the "System:"/"User:"
// markers. Templates without markers become pure user content.
func BuildPrompt(template, message string, ctx Context) (Prompt, error) {
	if ctx.RepoName == "" {
		ctx.RepoName = "this project"
	}
	if ctx.DateRange == "" {
		ctx.DateRange = "recent changes"
	}

	substitutions := map[string]string{
		PlaceholderRepoName:  ctx.RepoName,
		PlaceholderDateRange: ctx.DateRange,
		PlaceholderMessage:   message,
	}

	for placeholder := range substitutions {
		if !strings.Contains(template, placeholder) {
			return Prompt{}, fmt.Errorf("prompt template must contain %s", placeholder)
		}
	}

	formatted := template
	for placeholder, value := range substitutions {
		formatted = strings.ReplaceAll(formatted, placeholder, value)
	}

	prompt := splitRoles(formatted)
	if strings.TrimSpace(prompt.User) == "" {
		return Prompt{}, ErrEmptyUserContent
	}
	return prompt, nil
}

// splitRoles separates system and user content. Everything before the first
// "User:" marker belongs to the system role (with its "System:" label
// stripped); everything after is the user request.
func splitRoles(formatted string) Prompt {
	system, user, found := strings.Cut(formatted, "User:")
	if !found {
		return Prompt{User: strings.TrimSpace(formatted)}
	}

	system = strings.TrimPrefix(strings.TrimSpace(system), "System:")
	return Prompt{
		System: strings.TrimSpace(system),
		User:   strings.TrimSpace(user),
	}
}
