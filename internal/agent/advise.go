package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xrsl/cvx-agent/common/llm"
	"github.com/xrsl/cvx-agent/common/logger"
)

const defaultAdvisePrompt = "Analyze the job-CV match and provide strategic career advice."

// Advice wraps the model's raw text response; no parsing is required.
type Advice struct {
	Analysis string `json:"analysis"`
}

// Advise analyzes the match between a job posting and the current CV. The
// user prompt is the labeled request sections joined by blank lines, with a
// markdown heading per present section; optional sections are omitted.
func (a *Agent) Advise(ctx context.Context, req Request) (Advice, error) {
	systemPrompt := req.str("workflow_prompt")
	if systemPrompt == "" {
		systemPrompt = defaultAdvisePrompt
	}

	parts := []string{fmt.Sprintf("## Job Posting\n%s", req.str("job_posting"))}
	if cv := req.str("cv_content"); cv != "" {
		parts = append(parts, fmt.Sprintf("## Current CV\n%s", cv))
	}
	if extra := req.str("context"); extra != "" {
		parts = append(parts, fmt.Sprintf("## Additional Context\n%s", extra))
	}

	userPrompt := strings.Join(parts, "\n\n")
	slog.DebugContext(ctx, "advise prompt assembled", "prompt", logger.Truncate(userPrompt, 500))

	return runWithFallback(ctx, a.models, a.maxRetries, func(ctx context.Context, model string) (Advice, error) {
		client, err := a.factory(model)
		if err != nil {
			return Advice{}, err
		}

		analysis, _, err := client.Text(ctx, llm.Request{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
		})
		if err != nil {
			return Advice{}, err
		}
		return Advice{Analysis: analysis}, nil
	})
}
