package agent

import (
	"context"
	"log/slog"

	"github.com/xrsl/cvx-agent/common/logger"
)

// runWithFallback iterates the model order, attempting fn up to maxRetries
// times per model. Retries are immediate: no backoff, no timeout beyond
// what the provider call itself enforces. Every failure is logged and
// swallowed; only exhaustion escapes, as ErrAllAttemptsFailed with no
// partial result.
func runWithFallback[T any](ctx context.Context, models []string, maxRetries int, fn func(ctx context.Context, model string) (T, error)) (T, error) {
	for _, model := range models {
		attemptCtx := logger.WithLogFields(ctx, logger.LogFields{Model: model})

		for attempt := 1; attempt <= maxRetries; attempt++ {
			result, err := fn(attemptCtx, model)
			if err == nil {
				return result, nil
			}

			slog.WarnContext(attemptCtx, "model attempt failed",
				"model", model,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", err)
		}
	}

	var zero T
	return zero, ErrAllAttemptsFailed
}
