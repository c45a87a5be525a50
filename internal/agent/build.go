package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xrsl/cvx-agent/common/llm"
	"github.com/xrsl/cvx-agent/common/logger"
	"github.com/xrsl/cvx-agent/internal/cache"
	"github.com/xrsl/cvx-agent/internal/document"
)

const buildSystemPrompt = `You are a structured CV and letter generator.
Input is a JSON object containing:
  - job_posting
  - current cv
  - current letter
Return ONLY JSON conforming to the document schema.
Do not include extra text or explanations.`

// documentSchema is reflected once; the document types are fixed at compile time.
var documentSchema = llm.GenerateSchema[document.Document]()

// Build produces a tailored CV and cover letter pair for the job posting in
// the request. With the cache layer enabled, a hit returns immediately with
// zero provider calls; a miss runs the model loop and stores the validated
// result under the request's content address before returning it.
func (a *Agent) Build(ctx context.Context, req Request) (document.Document, error) {
	var key string

	if a.cache != nil {
		var err error
		key, err = cache.Key(req)
		if err != nil {
			return document.Document{}, err
		}
		ctx = logger.WithLogFields(ctx, logger.LogFields{CacheKey: key})

		var doc document.Document
		hit, err := a.cache.Lookup(key, &doc)
		if err != nil {
			// A corrupt or unreadable entry degrades to a miss.
			slog.WarnContext(ctx, "cache read failed", "error", err)
		}
		if hit {
			slog.InfoContext(ctx, "cache hit")
			return doc, nil
		}
	}

	doc, err := runWithFallback(ctx, a.models, a.maxRetries, func(ctx context.Context, model string) (document.Document, error) {
		return a.buildOnce(ctx, model, req)
	})
	if err != nil {
		return document.Document{}, err
	}

	if a.cache != nil {
		if err := a.cache.Store(key, doc); err != nil {
			// The result is valid either way; losing the cache entry only
			// costs a provider call on the next identical request.
			slog.WarnContext(ctx, "cache write failed", "error", err)
		}
	}

	return doc, nil
}

func (a *Agent) buildOnce(ctx context.Context, model string, req Request) (document.Document, error) {
	client, err := a.factory(model)
	if err != nil {
		return document.Document{}, err
	}

	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return document.Document{}, fmt.Errorf("marshal input: %w", err)
	}

	userPrompt := fmt.Sprintf("Here is the structured input JSON:\n%s\n\nProduce valid JSON output matching the document schema.", payload)
	slog.DebugContext(ctx, "build prompt assembled", "prompt", logger.Truncate(userPrompt, 500))

	var doc document.Document
	if _, err := client.Chat(ctx, llm.Request{
		SystemPrompt: buildSystemPrompt,
		UserPrompt:   userPrompt,
		SchemaName:   "cv_letter_document",
		Schema:       documentSchema,
	}, &doc); err != nil {
		return document.Document{}, err
	}

	// Unmarshal accepts any JSON object; the required constraints are
	// enforced here so a hollow or partial document fails the attempt.
	if err := doc.Validate(); err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	return doc, nil
}
