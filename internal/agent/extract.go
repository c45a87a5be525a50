package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xrsl/cvx-agent/common/llm"
	"github.com/xrsl/cvx-agent/common/logger"
)

const defaultExtractPrompt = "Extract job posting information as JSON."

// Extract pulls structured fields out of a job posting. The field set is
// not known ahead of time: the caller-supplied schema_prompt describes the
// desired fields and the result is an open map returned verbatim, with no
// shape validation on this side.
func (a *Agent) Extract(ctx context.Context, req Request) (map[string]any, error) {
	systemPrompt := req.str("schema_prompt")
	if systemPrompt == "" {
		systemPrompt = defaultExtractPrompt
	}

	url := req.str("url")
	if url == "" {
		url = "N/A"
	}

	userPrompt := fmt.Sprintf("Job URL: %s\n\nJob posting:\n%s", url, req.str("job_text"))
	slog.DebugContext(ctx, "extract prompt assembled", "prompt", logger.Truncate(userPrompt, 500))

	return runWithFallback(ctx, a.models, a.maxRetries, func(ctx context.Context, model string) (map[string]any, error) {
		client, err := a.factory(model)
		if err != nil {
			return nil, err
		}

		var fields map[string]any
		if _, err := client.Chat(ctx, llm.Request{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
		}, &fields); err != nil {
			return nil, err
		}
		return fields, nil
	})
}
