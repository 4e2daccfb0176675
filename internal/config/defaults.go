package config

// Defaults returns the default configuration values as koanf keys.
func Defaults() map[string]any {
	return map[string]any{
		"model":              "gpt-4o",
		"temperature":        0.7,
		"max_summary_tokens": 100,
		"base_url":           "",
		"timeout":            120,
		"prompt_file":        "",
		"concurrency":        4,
		"repo_name":          "",
	}
}
