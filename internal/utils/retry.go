package utils

import (
	"context"
	"time"
)

// RetryConfig controls Retry. MaxAttempts <= 0 retries until ctx is done.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second}
}

// Retry calls fn with exponential backoff until it succeeds, the attempts
// run out, or ctx is canceled. It returns the last error from fn, or
// ctx.Err() when canceled while waiting.
func Retry(ctx context.Context, cfg RetryConfig, fn func(attempt int) error) error {
	delay := cfg.BaseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	var err error

	for attempt := 0; cfg.MaxAttempts <= 0 || attempt < cfg.MaxAttempts; attempt++ {
		err = fn(attempt)
		if err == nil {
			return nil
		}

		// no sleep after the last attempt
		if cfg.MaxAttempts > 0 && attempt == cfg.MaxAttempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return err
}
