package cli

// Exit codes for the shiplog CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution, including a
	// fetch that matched zero commits.
	ExitSuccess = 0

	// ExitRuntimeError indicates a repository, output, or LLM failure.
	ExitRuntimeError = 1

	// ExitInvalidArguments indicates invalid command arguments.
	ExitInvalidArguments = 2
)
