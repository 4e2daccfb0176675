package errors

import "fmt"

// Common error messages for the shiplog CLI.
// These templates ensure consistent, actionable error messages.

// InvalidRepository creates an error for a path that is not a git repository.
func InvalidRepository(path string) *CLIError {
	return NewRepositoryError(
		fmt.Sprintf("not a git repository: %s", path),
		"Check the path passed to --repo-path",
		"Initialize a repository with: git init",
	)
}

// InvalidDateFormat creates an error for an unparseable since-date.
func InvalidDateFormat(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid RFC 3339 date: %q", value),
		"shiplog fetch-commits --repo-path . --since-date 2024-01-01T00:00:00Z",
		"Dates must be RFC 3339 with a timezone, e.g. 2024-01-01T00:00:00Z",
	)
}

// TagNotFound creates an error for a since-tag that does not exist.
func TagNotFound(tag string) *CLIError {
	return NewRepositoryError(
		fmt.Sprintf("tag not found: %q", tag),
		"List available tags with: git tag --list",
	)
}

// MissingSinceSelector creates an error when neither or both of
// --since-date and --since-tag were provided.
func MissingSinceSelector() *CLIError {
	return NewArgumentErrorWithUsage(
		"exactly one of --since-date or --since-tag must be provided",
		"shiplog fetch-commits --repo-path . --since-date 2024-01-01T00:00:00Z",
		"Use --since-date for a timestamp lower bound",
		"Or --since-tag to take everything after a release tag",
	)
}

// OutputWriteFailure creates an error when the output destination cannot be written.
func OutputWriteFailure(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write output file: %s", path),
		"Check file permissions and that the parent directory exists",
	)
}

// ServiceUnavailable creates an error when the LLM service cannot be reached.
func ServiceUnavailable(err error) *CLIError {
	return WrapWithMessage(err, Service,
		"LLM service unavailable",
		"Check your network connection",
		"Verify your API key is set: echo $OPENAI_API_KEY",
		"Point --base-url (or SHIPLOG_BASE_URL) at a reachable endpoint",
	)
}

// APIKeyMissing creates an error when no API key is configured.
func APIKeyMissing() *CLIError {
	return NewConfigError(
		"OPENAI_API_KEY environment variable is not set",
		"Export your API key: export OPENAI_API_KEY=sk-...",
	)
}

// PromptTemplateInvalid creates an error for a template missing placeholders.
func PromptTemplateInvalid(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid prompt template",
		"Templates must contain {{REPO_NAME}}, {{DATE_RANGE}}, and {{COMMIT_MESSAGE_PLACEHOLDER}}",
		"Remove prompt_file from your config to use the built-in template",
	)
}
