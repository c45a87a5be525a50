package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Fields flow through context enrichment, so handlers and clients
// never repeat the request context (action, model, cache key) by hand.
type LogFields struct {
	Action    string // Requested action ("build", "extract", "advise")
	Model     string // Model name of the attempt currently in flight
	CacheKey  string // Content-addressed key of the request, when computed
	Component string // Component name (e.g. "agent.dispatcher", "llm.openai")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.Action != "" {
		result.Action = next.Action
	}
	if next.Model != "" {
		result.Model = next.Model
	}
	if next.CacheKey != "" {
		result.CacheKey = next.CacheKey
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long strings like prompts or error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
