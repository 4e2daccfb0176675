package config

import "fmt"

// Validate checks configuration values for internal consistency.
func Validate(cfg *Configuration) error {
	if cfg.Model == "" {
		return fmt.Errorf("config validation failed: model must not be empty")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("config validation failed: temperature %v out of range [0, 2]", cfg.Temperature)
	}
	if cfg.MaxSummaryTokens <= 0 {
		return fmt.Errorf("config validation failed: max_summary_tokens must be positive, got %d", cfg.MaxSummaryTokens)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("config validation failed: timeout must not be negative, got %d", cfg.Timeout)
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("config validation failed: concurrency must be positive, got %d", cfg.Concurrency)
	}
	return nil
}
